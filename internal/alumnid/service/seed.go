package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
	"github.com/aussiebroadwan/alumni/internal/alumnid/store"
	"github.com/aussiebroadwan/alumni/pkg/idx"
	"github.com/aussiebroadwan/alumni/pkg/slogx"
	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
)

const avatarBase = "https://images.pexels.com/photos/"

type seedAuthor struct {
	key, email, name, avatar string
}

type seedComment struct {
	author, text, at string
}

type seedPost struct {
	author, topic, title, content, category, at string
	comments                                    []seedComment
}

type seedTopic struct {
	key, title, description string
}

// Department pages and alumni of the announcement board. Seeded accounts
// have no password and cannot log in.
var seedAuthors = []seedAuthor{
	{"programming", "programming@polytech.am", "Ծրագրավորման ամբիոն", avatarBase + "3184465/pexels-photo-3184465.jpeg?auto=compress&cs=tinysrgb&w=100&h=100"},
	{"electronics", "electronics@polytech.am", "Էլեկտրոնիկայի ամբիոն", avatarBase + "3184292/pexels-photo-3184292.jpeg?auto=compress&cs=tinysrgb&w=100&h=100"},
	{"datascience", "datascience@polytech.am", "Տվյալների գիտության ամբիոն", avatarBase + "3785079/pexels-photo-3785079.jpeg?auto=compress&cs=tinysrgb&w=100&h=100"},
	{"ani.k", "ani.karapetyan@alumni.polytech.am", "Շրջանավարտ Անի Կարապետյան", avatarBase + "3777943/pexels-photo-3777943.jpeg?auto=compress&cs=tinysrgb&w=50&h=50"},
	{"nare.h", "nare.hovhannisyan@polytech.am", "Դասախոս Նարե Հովհաննիսյան", avatarBase + "3763188/pexels-photo-3763188.jpeg?auto=compress&cs=tinysrgb&w=50&h=50"},
	{"davit.a", "davit.avagyan@alumni.polytech.am", "Շրջանավարտ Դավիթ Ավագյան", avatarBase + "3777943/pexels-photo-3777943.jpeg?auto=compress&cs=tinysrgb&w=50&h=50"},
	{"ani.s", "ani.sargsyan@polytech.am", "Դասախոս Անի Սարգսյան", avatarBase + "3763188/pexels-photo-3763188.jpeg?auto=compress&cs=tinysrgb&w=50&h=50"},
	{"narek.m", "narek.matevosyan@alumni.polytech.am", "Շրջանավարտ Նարեկ Մաթևոսյան", avatarBase + "3763188/pexels-photo-3763188.jpeg?auto=compress&cs=tinysrgb&w=50&h=50"},
	{"karen.m", "karen.markosyan@polytech.am", "Դասախոս Կարեն Մարկոսյան", avatarBase + "3777943/pexels-photo-3777943.jpeg?auto=compress&cs=tinysrgb&w=50&h=50"},
}

var seedTopics = []seedTopic{
	{"programming", "Ծրագրավորում", "Software engineering roles, courses and study groups."},
	{"electronics", "Էլեկտրոնիկա", "Hardware, embedded systems and chip design."},
	{"datascience", "Տվյալների գիտություն", "Analytics, machine learning and internships in data."},
}

var seedPosts = []seedPost{
	{
		author:   "programming",
		topic:    "programming",
		title:    "Աշխատանքային հնարավորություն",
		content:  `Հարգելի շրջանավարտներ, “Armenian Tech Solutions” ընկերությունը փնտրում է <b>Junior Frontend Developer</b>՝ React և JavaScript գիտելիքներով: Բոլոր հետաքրքրված շրջանավարտները կարող են ուղարկել CV ամբիոնի էլ. հասցեին՝ <a href="mailto:programming@polytech.am">programming@polytech.am</a>։`,
		category: "job",
		at:       "2025-10-26T11:20:00Z",
		comments: []seedComment{
			{"ani.k", "Շատ հետաքրքիր է, ինչ ժամկետում կարելի է դիմել՞", "2025-10-26T11:45:00Z"},
			{"nare.h", "Դիմել կարելի է մինչև նոյեմբերի 5-ը։", "2025-10-26T12:00:00Z"},
		},
	},
	{
		author:   "electronics",
		topic:    "electronics",
		title:    "Աշխատանքային առաջարկ՝ ինժեներների համար",
		content:  `<p>“Synopsys Armenia” ընկերությունը հայտարարում է մրցույթ <b>Hardware Engineer Intern</b> պաշտոնի համար։ Դիմել կարող են Պոլիտեխնիկի Էլեկտրոնիկայի բաժնի շրջանավարտները։</p>`,
		category: "internship",
		at:       "2025-10-25T09:00:00Z",
		comments: []seedComment{
			{"davit.a", "Կարելի՞ է դիմել առանց նախնական փորձի։", "2025-10-25T09:30:00Z"},
			{"ani.s", "Այո, սա ուսուցողական ծրագիր է, փորձը պարտադիր չէ։", "2025-10-25T09:50:00Z"},
		},
	},
	{
		author:   "datascience",
		topic:    "datascience",
		title:    "Data Analyst Internship",
		content:  `<p>“Ameriabank” առաջարկում է պրակտիկա տվյալների վերլուծության ոլորտում։ Հիմնական պահանջներ՝ Python, SQL և Excel-ի հիմունքներ։ Լավագույն մասնակիցներին կառաջարկվի մշտական աշխատանք։</p>`,
		category: "training",
		at:       "2025-10-24T15:00:00Z",
		comments: []seedComment{
			{"narek.m", "Կապը ինչպես հաստատենք բանկի HR-ի հետ՞", "2025-10-24T15:30:00Z"},
			{"karen.m", "HR-ի կոնտակտները կտեղադրենք ամբիոնի կայքում։", "2025-10-24T15:45:00Z"},
		},
	},
}

// Seeder loads the demonstration board into an empty database.
type Seeder struct {
	Store  store.Store
	Policy *bluemonday.Policy
}

// Seed populates the database when it has no users and no posts. It
// reports whether anything was written.
func (s *Seeder) Seed(ctx context.Context) (bool, error) {
	users, err := s.Store.Users().CountUsers(ctx)
	if err != nil {
		return false, err
	}
	posts, err := s.Store.Posts().CountPosts(ctx)
	if err != nil {
		return false, err
	}
	if users > 0 || posts > 0 {
		return false, nil
	}

	policy := s.Policy
	if policy == nil {
		policy = bluemonday.UGCPolicy()
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		epoch := mustTime(seedPosts[len(seedPosts)-1].at).Add(-24 * time.Hour)

		authors := make(map[string]string, len(seedAuthors))
		for _, a := range seedAuthors {
			u := domain.User{
				ID:        idx.NewAt(idx.User, epoch),
				Email:     a.email,
				FullName:  a.name,
				AvatarURL: a.avatar,
				CreatedAt: epoch,
				UpdatedAt: epoch,
			}
			if err := tx.Users().CreateUser(ctx, u); err != nil {
				return fmt.Errorf("seed user %s: %w", a.key, err)
			}
			authors[a.key] = u.ID
		}

		topics := make(map[string]string, len(seedTopics))
		for _, t := range seedTopics {
			topic := domain.Topic{
				ID:          idx.NewAt(idx.Topic, epoch),
				Slug:        slug.Make(t.title),
				Title:       t.title,
				Description: t.description,
				CreatedAt:   epoch,
			}
			if topic.Slug == "" {
				topic.Slug = t.key
			}
			if err := tx.Topics().CreateTopic(ctx, topic); err != nil {
				return fmt.Errorf("seed topic %s: %w", t.key, err)
			}
			topics[t.key] = topic.ID
		}

		for _, p := range seedPosts {
			at := mustTime(p.at)
			post := domain.Post{
				ID:        idx.NewAt(idx.Post, at),
				AuthorID:  authors[p.author],
				TopicID:   topics[p.topic],
				Title:     p.title,
				Content:   strings.TrimSpace(policy.Sanitize(p.content)),
				Category:  p.category,
				CreatedAt: at,
				UpdatedAt: at,
			}
			if err := tx.Posts().CreatePost(ctx, post); err != nil {
				return fmt.Errorf("seed post %q: %w", p.title, err)
			}

			for _, c := range p.comments {
				cat := mustTime(c.at)
				comment := domain.Comment{
					ID:        idx.NewAt(idx.Comment, cat),
					PostID:    post.ID,
					AuthorID:  authors[c.author],
					Text:      c.text,
					CreatedAt: cat,
					UpdatedAt: cat,
				}
				if err := tx.Comments().CreateComment(ctx, comment); err != nil {
					return fmt.Errorf("seed comment: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	slogx.FromContext(ctx).Info("database seeded",
		slog.Int("users", len(seedAuthors)),
		slog.Int("topics", len(seedTopics)),
		slog.Int("posts", len(seedPosts)),
	)
	return true, nil
}

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
