package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SEOMetadata is the free-form search/social preview override bag stored on a post.
type SEOMetadata struct {
	MetaTitle          string   `json:"meta_title,omitempty" yaml:"meta_title"`
	MetaDescription    string   `json:"meta_description,omitempty" yaml:"meta_description"`
	Keywords           []string `json:"keywords,omitempty" yaml:"keywords"`
	OGTitle            string   `json:"og_title,omitempty" yaml:"og_title"`
	OGDescription      string   `json:"og_description,omitempty" yaml:"og_description"`
	OGImage            string   `json:"og_image,omitempty" yaml:"og_image"`
	TwitterTitle       string   `json:"twitter_title,omitempty" yaml:"twitter_title"`
	TwitterDescription string   `json:"twitter_description,omitempty" yaml:"twitter_description"`
	TwitterImage       string   `json:"twitter_image,omitempty" yaml:"twitter_image"`
}

// IsEmpty reports whether no override is set.
func (m SEOMetadata) IsEmpty() bool {
	return m.MetaTitle == "" && m.MetaDescription == "" && len(m.Keywords) == 0 &&
		m.OGTitle == "" && m.OGDescription == "" && m.OGImage == "" &&
		m.TwitterTitle == "" && m.TwitterDescription == "" && m.TwitterImage == ""
}

type Author struct {
	ID          string `gorm:"primaryKey;size:36"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Name        string `gorm:"not null"`
	Email       string `gorm:"not null"`
	Bio         *string
	AvatarURL   *string
	LinkedinURL *string
	CreatedAt   time.Time
	Posts       []Post `gorm:"foreignKey:AuthorID"`
}

func (Author) TableName() string { return "authors" }

type Category struct {
	ID          string `gorm:"primaryKey;size:36"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Name        string `gorm:"not null"`
	Description *string
	Color       *string
	CreatedAt   time.Time
}

func (Category) TableName() string { return "categories" }

type Tag struct {
	ID        string `gorm:"primaryKey;size:36"`
	Slug      string `gorm:"uniqueIndex;not null"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time
}

func (Tag) TableName() string { return "tags" }

type Post struct {
	ID               string `gorm:"primaryKey;size:36"`
	Title            string `gorm:"not null"`
	Slug             string `gorm:"uniqueIndex;not null"`
	Excerpt          string `gorm:"type:text;not null"`
	Content          string `gorm:"type:text;not null"`
	FeaturedImageURL *string
	IsFeatured       bool       `gorm:"not null;default:false;index"`
	IsPublished      bool       `gorm:"not null;default:false;index"`
	PublishedAt      *time.Time `gorm:"index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	AuthorID         string                          `gorm:"size:36;index;not null"`
	Author           Author                          `gorm:"foreignKey:AuthorID"`
	ReadingTime      int                             `gorm:"not null;default:1"`
	ViewCount        int64                           `gorm:"not null;default:0"`
	SEOMetadata      datatypes.JSONType[SEOMetadata] `gorm:"column:seo_metadata;not null"`

	Categories []PostCategory `gorm:"foreignKey:PostID"`
	Tags       []PostTag      `gorm:"foreignKey:PostID"`
}

func (Post) TableName() string { return "blog_posts" }

// PostCategory is the post_categories join row.
type PostCategory struct {
	PostID     string   `gorm:"primaryKey;size:36"`
	CategoryID string   `gorm:"primaryKey;size:36"`
	Category   Category `gorm:"foreignKey:CategoryID"`
}

func (PostCategory) TableName() string { return "post_categories" }

// PostTag is the post_tags join row.
type PostTag struct {
	PostID string `gorm:"primaryKey;size:36"`
	TagID  string `gorm:"primaryKey;size:36"`
	Tag    Tag    `gorm:"foreignKey:TagID"`
}

func (PostTag) TableName() string { return "post_tags" }

func newID() string {
	return uuid.NewString()
}

func (a *Author) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = newID()
	}
	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = newID()
	}
	return nil
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = newID()
	}
	return nil
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = newID()
	}
	return nil
}

// AllModels lists every table the content store owns, in migration order.
func AllModels() []any {
	return []any{&Author{}, &Category{}, &Tag{}, &Post{}, &PostCategory{}, &PostTag{}}
}
