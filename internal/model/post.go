package model

import "time"

// PostType is the closed set of content kinds a post can have.
type PostType string

const (
	PostTypePost    PostType = "post"
	PostTypePage    PostType = "page"
	PostTypeArticle PostType = "article"
	PostTypeNews    PostType = "news"
	PostTypeVideo   PostType = "video"
)

// Valid reports whether t is one of the known post types.
func (t PostType) Valid() bool {
	switch t {
	case PostTypePost, PostTypePage, PostTypeArticle, PostTypeNews, PostTypeVideo:
		return true
	}
	return false
}

// PostStatus is the publication state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusScheduled PostStatus = "scheduled"
)

// Valid reports whether s is one of the known statuses.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusScheduled:
		return true
	}
	return false
}

// SEO holds optional search-engine metadata. The zero value is the empty object.
type SEO struct {
	MetaTitle       string   `json:"metaTitle,omitempty" bson:"metaTitle,omitempty"`
	MetaDescription string   `json:"metaDescription,omitempty" bson:"metaDescription,omitempty"`
	Keywords        []string `json:"keywords,omitempty" bson:"keywords,omitempty"`
}

// Reactions counts reader reactions on a post.
type Reactions struct {
	Likes int `json:"likes" bson:"likes"`
	Claps int `json:"claps" bson:"claps"`
}

// Post is a persisted content item. References to other entities are stored as ids.
type Post struct {
	ID           string     `json:"id" bson:"_id"`
	Author       string     `json:"author" bson:"author"`
	Title        string     `json:"title" bson:"title"`
	Slug         string     `json:"slug" bson:"slug"`
	Summary      string     `json:"summary" bson:"summary"`
	Content      string     `json:"content" bson:"content"`
	ThumbnailURL *string    `json:"thumbnailUrl" bson:"thumbnailUrl"`
	Type         PostType   `json:"type" bson:"type"`
	Status       PostStatus `json:"status" bson:"status"`
	ScheduledAt  *time.Time `json:"scheduledAt" bson:"scheduledAt"`
	Category     *string    `json:"category" bson:"category"`
	Tags         []string   `json:"tags" bson:"tags"`
	Files        []string   `json:"files" bson:"files"`
	Views        int        `json:"views" bson:"views"`
	Reactions    Reactions  `json:"reactions" bson:"reactions"`
	SEO          SEO        `json:"seo" bson:"seo"`
	PublishedAt  *time.Time `json:"publishedAt" bson:"publishedAt"`
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// AuthorSummary is the author projection attached to a post response.
type AuthorSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl"`
}

// Ref is a name/slug projection of a category or tag.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PostView is a post with its related entities populated.
type PostView struct {
	ID           string         `json:"id"`
	Author       *AuthorSummary `json:"author"`
	Title        string         `json:"title"`
	Slug         string         `json:"slug"`
	Summary      string         `json:"summary"`
	Content      string         `json:"content"`
	ThumbnailURL *string        `json:"thumbnailUrl"`
	Type         PostType       `json:"type"`
	Status       PostStatus     `json:"status"`
	ScheduledAt  *time.Time     `json:"scheduledAt"`
	Category     *Ref           `json:"category"`
	Tags         []Ref          `json:"tags"`
	Files        []File         `json:"files"`
	Views        int            `json:"views"`
	Reactions    Reactions      `json:"reactions"`
	SEO          SEO            `json:"seo"`
	PublishedAt  *time.Time     `json:"publishedAt"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}
