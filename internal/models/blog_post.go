package models

import "time"

// PostExtras holds the optional structured parts of a blog post.
type PostExtras struct {
	Subheadings  []Subheading  `json:"subheadings,omitempty"`
	CodeSnippets []CodeSnippet `json:"code_snippets,omitempty"`
	CallToAction string        `json:"call_to_action,omitempty"`
	Conclusion   string        `json:"conclusion,omitempty"`
	Author       string        `json:"author,omitempty"`
}

// Subheading is a titled section inside a post body.
type Subheading struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CodeSnippet is an embedded code block with its language tag.
type CodeSnippet struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// BlogPostModel is a blog post. Slug is the public lookup key in addition to
// the id. Published == nil is treated as published for display filtering.
type BlogPostModel struct {
	Base
	Slug        string      `json:"slug"         gorm:"uniqueIndex;not null"`
	Title       string      `json:"title"        gorm:"not null"`
	Intro       string      `json:"intro"        gorm:"type:text"`
	Content     string      `json:"content"      gorm:"type:longtext"`
	PublishedAt *time.Time  `json:"published_at"`
	ReadingTime int         `json:"reading_time" gorm:"default:0"` // minutes
	Tags        StringArray `json:"tags"         gorm:"type:longtext"`
	Images      []Image     `json:"images"       gorm:"type:longtext;serializer:json"`
	Extras      *PostExtras `json:"extras,omitempty" gorm:"type:longtext;serializer:json"`
	Published   *bool       `json:"published,omitempty"`
}

func (BlogPostModel) TableName() string { return "blog_posts" }

// IsPublished applies the default-permissive policy: absent means published.
func (p BlogPostModel) IsPublished() bool {
	return p.Published == nil || *p.Published
}
