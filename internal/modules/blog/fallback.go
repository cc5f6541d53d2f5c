package blog

import (
	"time"

	"github.com/foliospace/core/internal/models"
)

// The fallback dataset is a small fixed set of placeholder posts compiled
// into the binary. It is a static substitute, not a cache: it never expires
// and is never reconciled with the primary store.
var fallbackDataset = []models.BlogPostModel{
	{
		Base: models.Base{
			ID:        "fallback-welcome",
			CreatedAt: time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
		},
		Slug:        "welcome",
		Title:       "Welcome to the blog",
		Intro:       "A short introduction to this site and what gets written here.",
		Content:     "The blog is temporarily running in offline mode. Recent articles will reappear once the content database is reachable again.",
		PublishedAt: timePtr(time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)),
		ReadingTime: 1,
		Tags:        models.StringArray{"meta"},
	},
	{
		Base: models.Base{
			ID:        "fallback-projects-tour",
			CreatedAt: time.Date(2025, 2, 17, 18, 30, 0, 0, time.UTC),
			UpdatedAt: time.Date(2025, 2, 17, 18, 30, 0, 0, time.UTC),
		},
		Slug:        "a-tour-of-my-projects",
		Title:       "A tour of my projects",
		Intro:       "Highlights from the projects section, and the stories behind them.",
		Content:     "From side experiments to production systems, every project taught something worth writing down. The full article returns when the content database is back online.",
		PublishedAt: timePtr(time.Date(2025, 2, 17, 18, 30, 0, 0, time.UTC)),
		ReadingTime: 3,
		Tags:        models.StringArray{"projects", "retrospective"},
	},
	{
		Base: models.Base{
			ID:        "fallback-learning-notes",
			CreatedAt: time.Date(2025, 4, 2, 11, 15, 0, 0, time.UTC),
			UpdatedAt: time.Date(2025, 4, 2, 11, 15, 0, 0, time.UTC),
		},
		Slug:        "learning-in-public",
		Title:       "Learning in public",
		Intro:       "Why I keep notes here instead of a private wiki.",
		Content:     "Publishing half-finished notes is uncomfortable and useful in equal measure. This placeholder stands in for the article while the database is unreachable.",
		PublishedAt: timePtr(time.Date(2025, 4, 2, 11, 15, 0, 0, time.UTC)),
		ReadingTime: 2,
		Tags:        models.StringArray{"writing"},
	},
}

// fallbackPosts returns a copy of the fallback dataset so callers cannot
// mutate the shared slice. All fallback posts count as published.
func fallbackPosts() []models.BlogPostModel {
	out := make([]models.BlogPostModel, len(fallbackDataset))
	copy(out, fallbackDataset)
	return out
}

func timePtr(t time.Time) *time.Time { return &t }
