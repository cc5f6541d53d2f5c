// Package blog implements the blog content store with a degrade-to-fallback
// read path, plus its HTTP surface (public reads, admin writes, the ingest
// webhook and the health/status endpoints).
package blog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/foliospace/core/internal/models"
	"github.com/foliospace/core/internal/pkg/apperrors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const probeTimeout = 2 * time.Second

// Store serves blog content resiliently. Each read performs a lazy
// connectivity probe; while the primary store is unreachable, reads are
// served from the built-in fallback dataset and writes are refused with
// ErrStoreUnavailable. No writes are buffered, so recovery needs no
// reconciliation.
type Store struct {
	db  *gorm.DB
	log *zap.Logger

	// probe is injectable for tests; the default pings the sql connection.
	probe func(ctx context.Context) error

	mu       sync.Mutex
	degraded bool
}

// ListResult tags a post listing with the degraded-mode flag so the
// presentation layer can surface it.
type ListResult struct {
	Posts    []models.BlogPostModel `json:"posts"`
	Fallback bool                   `json:"fallback"`
}

// NewStore builds a blog store on the primary database.
func NewStore(db *gorm.DB, log *zap.Logger) *Store {
	s := &Store{db: db, log: log.Named("blog")}
	s.probe = s.pingPrimary
	return s
}

func (s *Store) pingPrimary(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// checkPrimary runs the connectivity probe and records the resulting state.
func (s *Store) checkPrimary(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	err := s.probe(probeCtx)

	s.mu.Lock()
	defer s.mu.Unlock()
	wasDegraded := s.degraded
	s.degraded = err != nil
	if err != nil && !wasDegraded {
		s.log.Warn("primary store unreachable, serving fallback content", zap.Error(err))
	}
	if err == nil && wasDegraded {
		s.log.Info("primary store recovered")
	}
	return err == nil
}

// Degraded reports whether the last probe failed.
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// ListPosts returns posts for the public page. It never returns an error:
// on a store outage it serves the fallback dataset tagged Fallback.
func (s *Store) ListPosts(ctx context.Context, publishedOnly bool) ListResult {
	if !s.checkPrimary(ctx) {
		return ListResult{Posts: fallbackPosts(), Fallback: true}
	}

	var posts []models.BlogPostModel
	tx := s.db.WithContext(ctx).Order("published_at DESC, created_at DESC")
	if publishedOnly {
		// published IS NULL counts as published: default-permissive policy.
		tx = tx.Where("published IS NULL OR published = ?", true)
	}
	if err := tx.Find(&posts).Error; err != nil {
		s.markDegraded(err)
		return ListResult{Posts: fallbackPosts(), Fallback: true}
	}
	if posts == nil {
		posts = []models.BlogPostModel{}
	}
	return ListResult{Posts: posts}
}

// GetBySlug returns a single post by its public slug. The bool reports
// whether the fallback dataset served the read.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.BlogPostModel, bool, error) {
	if !s.checkPrimary(ctx) {
		return findFallback(func(p models.BlogPostModel) bool { return p.Slug == slug })
	}

	var post models.BlogPostModel
	if err := s.db.WithContext(ctx).First(&post, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apperrors.ErrNotFound
		}
		s.markDegraded(err)
		return findFallback(func(p models.BlogPostModel) bool { return p.Slug == slug })
	}
	return &post, false, nil
}

// GetByID returns a single post by id. The bool reports whether the fallback
// dataset served the read.
func (s *Store) GetByID(ctx context.Context, id string) (*models.BlogPostModel, bool, error) {
	if !s.checkPrimary(ctx) {
		return findFallback(func(p models.BlogPostModel) bool { return p.ID == id })
	}

	var post models.BlogPostModel
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apperrors.ErrNotFound
		}
		s.markDegraded(err)
		return findFallback(func(p models.BlogPostModel) bool { return p.ID == id })
	}
	return &post, false, nil
}

// Create persists a new post. Writes never degrade: while the primary store
// is unreachable they fail with ErrStoreUnavailable.
func (s *Store) Create(ctx context.Context, dto *CreatePostDTO) (*models.BlogPostModel, error) {
	if err := dto.validate(); err != nil {
		return nil, err
	}
	if !s.checkPrimary(ctx) {
		return nil, apperrors.ErrStoreUnavailable
	}

	post := dto.toModel()
	if post.Slug == "" {
		post.Slug = Slugify(post.Title)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.BlogPostModel{}).
		Where("slug = ?", post.Slug).Count(&count).Error; err != nil {
		return nil, s.storeErr("create", err)
	}
	if count > 0 {
		return nil, &apperrors.ValidationError{Reason: fmt.Sprintf("slug %q already exists", post.Slug)}
	}

	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, s.storeErr("create", err)
	}
	return post, nil
}

// Update replaces only the supplied fields of an existing post.
func (s *Store) Update(ctx context.Context, id string, dto *UpdatePostDTO) (*models.BlogPostModel, error) {
	if !s.checkPrimary(ctx) {
		return nil, apperrors.ErrStoreUnavailable
	}

	var post models.BlogPostModel
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, s.storeErr("update", err)
	}

	if !dto.apply(&post) {
		return &post, nil
	}
	if err := s.db.WithContext(ctx).Save(&post).Error; err != nil {
		return nil, s.storeErr("update", err)
	}
	return &post, nil
}

// Delete hard-deletes a post.
func (s *Store) Delete(ctx context.Context, id string) error {
	if !s.checkPrimary(ctx) {
		return apperrors.ErrStoreUnavailable
	}

	res := s.db.WithContext(ctx).Unscoped().Delete(&models.BlogPostModel{}, "id = ?", id)
	if res.Error != nil {
		return s.storeErr("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Count returns the number of stored posts, or an error when degraded.
func (s *Store) Count(ctx context.Context) (int64, error) {
	if !s.checkPrimary(ctx) {
		return 0, apperrors.ErrStoreUnavailable
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.BlogPostModel{}).Count(&n).Error; err != nil {
		return 0, s.storeErr("count", err)
	}
	return n, nil
}

func (s *Store) markDegraded(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.degraded {
		s.log.Warn("blog query failed, serving fallback content", zap.Error(err))
	}
	s.degraded = true
}

func (s *Store) storeErr(op string, err error) error {
	return fmt.Errorf("%s post: %v: %w", op, err, apperrors.ErrStoreUnavailable)
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a post title.
func Slugify(title string) string {
	slug := slugCleaner.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	return strings.Trim(slug, "-")
}

// EstimateReadingTime returns a minutes estimate at ~200 words per minute.
func EstimateReadingTime(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + 199) / 200
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

func findFallback(match func(models.BlogPostModel) bool) (*models.BlogPostModel, bool, error) {
	for _, p := range fallbackPosts() {
		if match(p) {
			post := p
			return &post, true, nil
		}
	}
	return nil, true, apperrors.ErrNotFound
}
