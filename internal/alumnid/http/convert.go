package http

import (
	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
	"github.com/aussiebroadwan/alumni/pkg/alumnisdk"
)

// publicUser hides the email address; it is only shown to its owner.
func publicUser(u domain.User) alumnisdk.User {
	out := selfUser(u)
	out.Email = ""
	return out
}

func selfUser(u domain.User) alumnisdk.User {
	return alumnisdk.User{
		ID:               u.ID,
		Email:            u.Email,
		FullName:         u.FullName,
		Headline:         u.Headline,
		Location:         u.Location,
		About:            u.About,
		AvatarURL:        u.AvatarURL,
		BannerURL:        u.BannerURL,
		TwoFactorEnabled: u.TwoFactorEnabled(),
		CreatedAt:        u.CreatedAt,
	}
}

func toAuthor(a domain.Author) alumnisdk.Author {
	return alumnisdk.Author{ID: a.ID, Name: a.Name, Avatar: a.AvatarURL}
}

func toPost(p domain.Post) alumnisdk.Post {
	comments := make([]alumnisdk.Comment, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, toComment(c))
	}
	return alumnisdk.Post{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Category:  p.Category,
		TopicID:   p.TopicID,
		Author:    toAuthor(p.Author),
		Comments:  comments,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPosts(in []domain.Post) []alumnisdk.Post {
	out := make([]alumnisdk.Post, 0, len(in))
	for _, p := range in {
		out = append(out, toPost(p))
	}
	return out
}

func toComment(c domain.Comment) alumnisdk.Comment {
	return alumnisdk.Comment{
		ID:        c.ID,
		PostID:    c.PostID,
		Text:      c.Text,
		Author:    toAuthor(c.Author),
		CreatedAt: c.CreatedAt,
	}
}

func toComments(in []domain.Comment) []alumnisdk.Comment {
	out := make([]alumnisdk.Comment, 0, len(in))
	for _, c := range in {
		out = append(out, toComment(c))
	}
	return out
}

func toTopic(t domain.Topic) alumnisdk.Topic {
	var posts []alumnisdk.Post
	if t.Posts != nil {
		posts = toPosts(t.Posts)
	}
	return alumnisdk.Topic{
		ID:          t.ID,
		Slug:        t.Slug,
		Title:       t.Title,
		Description: t.Description,
		PostCount:   t.PostCount,
		Posts:       posts,
		CreatedAt:   t.CreatedAt,
	}
}

func toTopics(in []domain.Topic) []alumnisdk.Topic {
	out := make([]alumnisdk.Topic, 0, len(in))
	for _, t := range in {
		out = append(out, toTopic(t))
	}
	return out
}

func toMessages(in []domain.Message) []alumnisdk.Message {
	out := make([]alumnisdk.Message, 0, len(in))
	for _, m := range in {
		out = append(out, toMessage(m))
	}
	return out
}

func toMessage(m domain.Message) alumnisdk.Message {
	return alumnisdk.Message{
		ID:        m.ID,
		ChatID:    m.ChatID,
		Text:      m.Text,
		Author:    toAuthor(m.Author),
		CreatedAt: m.CreatedAt,
	}
}

func toSearchResults(r domain.SearchResults) alumnisdk.SearchResults {
	users := make([]alumnisdk.User, 0, len(r.Users))
	for _, u := range r.Users {
		users = append(users, publicUser(u))
	}
	return alumnisdk.SearchResults{
		Query:  r.Query,
		Users:  users,
		Posts:  toPosts(r.Posts),
		Topics: toTopics(r.Topics),
	}
}

func toEducation(e domain.Education) alumnisdk.Education {
	return alumnisdk.Education{
		ID:          e.ID,
		Institution: e.Institution,
		Degree:      e.Degree,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
	}
}

func fromEducationInput(in alumnisdk.EducationInput) domain.Education {
	return domain.Education{
		Institution: in.Institution,
		Degree:      in.Degree,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}
}

func toLicense(l domain.License) alumnisdk.License {
	return alumnisdk.License{
		ID:            l.ID,
		Name:          l.Name,
		Organization:  l.Organization,
		IssueDate:     l.IssueDate,
		CredentialURL: l.CredentialURL,
	}
}

func fromLicenseInput(in alumnisdk.LicenseInput) domain.License {
	return domain.License{
		Name:          in.Name,
		Organization:  in.Organization,
		IssueDate:     in.IssueDate,
		CredentialURL: in.CredentialURL,
	}
}

func fromPostInput(in alumnisdk.PostInput) domain.Post {
	return domain.Post{
		Title:    in.Title,
		Content:  in.Content,
		Category: in.Category,
		TopicID:  in.TopicID,
	}
}
