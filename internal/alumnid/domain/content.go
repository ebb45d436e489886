package domain

import "time"

// Author is the profile summary embedded in posts, comments and messages.
type Author struct {
	ID        string
	Name      string
	AvatarURL string
}

type Post struct {
	ID        string
	AuthorID  string
	TopicID   string // empty when the post is not in a forum topic
	Title     string
	Content   string // sanitised HTML
	Category  string
	Author    Author
	Comments  []Comment
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostFilter narrows ListPosts. Zero fields do not filter.
type PostFilter struct {
	Category string
	AuthorID string
	TopicID  string
	Limit    int
}

type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Text      string
	Author    Author
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Topic struct {
	ID          string
	Slug        string
	Title       string
	Description string
	PostCount   int
	Posts       []Post
	CreatedAt   time.Time
}

type Message struct {
	ID        string
	ChatID    string
	AuthorID  string
	Text      string
	Author    Author
	CreatedAt time.Time
}

// SearchResults groups matches by kind.
type SearchResults struct {
	Query  string
	Users  []User
	Posts  []Post
	Topics []Topic
}
