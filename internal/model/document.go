package model

// Collection names shared by every storage backend.
const (
	CollectionPosts      = "posts"
	CollectionFiles      = "files"
	CollectionCategories = "categories"
	CollectionTags       = "tags"
	CollectionUsers      = "users"
	CollectionProfiles   = "user_profiles"
)

func (p Post) DocumentID() string     { return p.ID }
func (p Post) CollectionName() string { return CollectionPosts }

func (f File) DocumentID() string     { return f.ID }
func (f File) CollectionName() string { return CollectionFiles }

func (c Category) DocumentID() string     { return c.ID }
func (c Category) CollectionName() string { return CollectionCategories }

func (t Tag) DocumentID() string     { return t.ID }
func (t Tag) CollectionName() string { return CollectionTags }

func (u User) DocumentID() string     { return u.ID }
func (u User) CollectionName() string { return CollectionUsers }

func (p UserProfile) DocumentID() string     { return p.ID }
func (p UserProfile) CollectionName() string { return CollectionProfiles }
