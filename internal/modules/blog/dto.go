package blog

import (
	"time"

	"github.com/foliospace/core/internal/models"
	"github.com/foliospace/core/internal/pkg/apperrors"
)

// CreatePostDTO is the creation payload accepted by the admin API and the
// ingest webhook.
type CreatePostDTO struct {
	Title       string             `json:"title"`
	Slug        string             `json:"slug"`
	Intro       string             `json:"intro"`
	Content     string             `json:"content"`
	PublishedAt *time.Time         `json:"published_at"`
	ReadingTime int                `json:"reading_time"`
	Tags        []string           `json:"tags"`
	Images      []models.Image     `json:"images"`
	Extras      *models.PostExtras `json:"extras"`
	Published   *bool              `json:"published"`
}

func (d *CreatePostDTO) validate() error {
	var missing []string
	if d.Title == "" {
		missing = append(missing, "title")
	}
	if d.Content == "" {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return apperrors.NewValidation(missing...)
	}
	return nil
}

func (d *CreatePostDTO) toModel() *models.BlogPostModel {
	post := &models.BlogPostModel{
		Slug:        Slugify(d.Slug),
		Title:       d.Title,
		Intro:       d.Intro,
		Content:     d.Content,
		PublishedAt: d.PublishedAt,
		ReadingTime: d.ReadingTime,
		Tags:        d.Tags,
		Images:      d.Images,
		Extras:      d.Extras,
		Published:   d.Published,
	}
	if post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}
	if post.ReadingTime == 0 {
		post.ReadingTime = EstimateReadingTime(post.Content)
	}
	return post
}

// UpdatePostDTO carries a partial update; nil fields are left untouched.
type UpdatePostDTO struct {
	Title       *string            `json:"title"`
	Slug        *string            `json:"slug"`
	Intro       *string            `json:"intro"`
	Content     *string            `json:"content"`
	PublishedAt *time.Time         `json:"published_at"`
	ReadingTime *int               `json:"reading_time"`
	Tags        []string           `json:"tags"`
	Images      []models.Image     `json:"images"`
	Extras      *models.PostExtras `json:"extras"`
	Published   *bool              `json:"published"`
}

// apply overlays the supplied fields onto the stored post. Working on the
// struct keeps the column serializers in play when the record is saved, which
// a map-based Updates call would bypass.
func (d *UpdatePostDTO) apply(post *models.BlogPostModel) bool {
	changed := false
	if d.Title != nil {
		post.Title = *d.Title
		changed = true
	}
	if d.Slug != nil {
		post.Slug = Slugify(*d.Slug)
		changed = true
	}
	if d.Intro != nil {
		post.Intro = *d.Intro
		changed = true
	}
	if d.Content != nil {
		post.Content = *d.Content
		changed = true
	}
	if d.PublishedAt != nil {
		post.PublishedAt = d.PublishedAt
		changed = true
	}
	if d.ReadingTime != nil {
		post.ReadingTime = *d.ReadingTime
		changed = true
	}
	if d.Tags != nil {
		post.Tags = models.StringArray(d.Tags)
		changed = true
	}
	if d.Images != nil {
		post.Images = d.Images
		changed = true
	}
	if d.Extras != nil {
		post.Extras = d.Extras
		changed = true
	}
	if d.Published != nil {
		post.Published = d.Published
		changed = true
	}
	return changed
}
