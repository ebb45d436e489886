package alumni_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/alumni/pkg/alumnisdk"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestSeededBoard(t *testing.T) {
	baseURL := setupBackend(t, nil)
	ctx := context.Background()

	session := signUp(t, baseURL, "reader@example.com", "Board Reader")

	posts, err := session.ListPosts(ctx, "")
	require.NoError(t, err)
	require.NotEmpty(t, posts, "Seeded announcements should be listed")
	for i := 1; i < len(posts); i++ {
		require.False(t, posts[i].CreatedAt.After(posts[i-1].CreatedAt), "Posts should be newest first")
	}

	topics, err := session.ListTopics(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, topics, "Seeded topics should be listed")

	topic, err := session.GetTopic(ctx, topics[0].Slug)
	require.NoError(t, err)
	require.Equal(t, topics[0].ID, topic.ID)
	t.Logf("Seeded board has %d posts and %d topics", len(posts), len(topics))
}

func TestPublishAndComment(t *testing.T) {
	baseURL := setupBackend(t, nil)
	ctx := context.Background()

	session := signUp(t, baseURL, "author@example.com", "Post Author")

	post, err := session.CreatePost(ctx, alumnisdk.PostInput{
		Title:    "Graduate role",
		Category: alumnisdk.CategoryJob,
		Content:  `<p>Apply now for the graduate programme</p><script>alert(1)</script>`,
	})
	require.NoError(t, err)
	require.NotContains(t, post.Content, "<script>", "Content should be sanitised")
	t.Logf("Published post %s", post.ID)

	// Crossing the expiry mid-flow must not interrupt the author.
	waitForExpiry()

	comment, err := session.CreateComment(ctx, post.ID, alumnisdk.CommentInput{Text: "Interested!"})
	require.NoError(t, err)

	comments, err := session.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Equal(t, comment.ID, comments[0].ID)

	jobs, err := session.ListPosts(ctx, alumnisdk.CategoryJob)
	require.NoError(t, err)
	require.Contains(t, postIDs(jobs), post.ID)

	require.NoError(t, session.DeletePost(ctx, post.ID))
	_, err = session.GetPost(ctx, post.ID)
	require.Error(t, err)
}

func TestTwoFactorLogin(t *testing.T) {
	baseURL := setupBackend(t, nil)
	ctx := context.Background()

	session := signUp(t, baseURL, "mfa@example.com", "MFA User")

	enroll, err := session.EnrollTwoFactor(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, enroll.Secret)
	require.Contains(t, enroll.OTPAuthURL, "otpauth://totp/")

	code, err := totp.GenerateCode(enroll.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, session.ConfirmTwoFactor(ctx, code))
	t.Logf("Two-factor enabled")

	client := alumnisdk.NewSDKClient(baseURL)
	fresh := client.NewSession(alumnisdk.NewMemoryStore(""))

	_, err = fresh.Login(ctx, "mfa@example.com", testPassword)
	var challenge *alumnisdk.TwoFactorRequiredError
	require.True(t, errors.As(err, &challenge), "Login should ask for a code: %v", err)
	require.NotEmpty(t, challenge.ChallengeToken)

	_, err = fresh.VerifyTwoFactor(ctx, challenge.ChallengeToken, "000000")
	require.Error(t, err, "Wrong code should be refused")

	code, err = totp.GenerateCode(enroll.Secret, time.Now())
	require.NoError(t, err)
	auth, err := fresh.VerifyTwoFactor(ctx, challenge.ChallengeToken, code)
	require.NoError(t, err)
	assertAuthResponse(t, auth)

	me, err := fresh.Me(ctx)
	require.NoError(t, err)
	require.True(t, me.TwoFactorEnabled)
}

func postIDs(posts []alumnisdk.Post) []string {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}
