// Package analytics ingests visitor and blog-interaction events. Records are
// append-only: nothing in the normal flow updates or deletes them.
package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foliospace/core/internal/models"
	"github.com/foliospace/core/internal/pkg/apperrors"
	"github.com/foliospace/core/internal/pkg/geoip"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var eventKinds = map[string]bool{
	"view":  true,
	"read":  true,
	"click": true,
	"share": true,
}

// GeoLookup resolves an IP to location data. Implemented by geoip.Client.
type GeoLookup interface {
	Lookup(ctx context.Context, ip string) (*geoip.Location, error)
}

// Service records tracking events, enriching them with server-observed
// request metadata.
type Service struct {
	db  *gorm.DB
	geo GeoLookup
	log *zap.Logger
}

// NewService builds the analytics service. geo may be nil to disable
// geolocation enrichment.
func NewService(db *gorm.DB, geo GeoLookup, log *zap.Logger) *Service {
	return &Service{db: db, geo: geo, log: log.Named("analytics")}
}

// VisitorDTO is the client-supplied part of a visit record. The session id is
// an explicit correlation id chosen by the client, not an ambient lookup.
type VisitorDTO struct {
	PageURL   string `json:"page_url"`
	Referrer  string `json:"referrer"`
	SessionID string `json:"session_id"`
}

// RecordVisitor inserts one visit row. Geolocation enrichment is best-effort:
// a failed lookup is logged and the insert proceeds with empty geo fields.
func (s *Service) RecordVisitor(ctx context.Context, dto *VisitorDTO, ip, userAgent string) (*models.VisitorModel, error) {
	visitor := &models.VisitorModel{
		IP:        ip,
		UserAgent: userAgent,
		PageURL:   dto.PageURL,
		Referrer:  dto.Referrer,
		SessionID: dto.SessionID,
		Timestamp: time.Now(),
	}

	if s.geo != nil {
		if loc, err := s.geo.Lookup(ctx, ip); err != nil {
			s.log.Debug("geo lookup failed", zap.String("ip", ip), zap.Error(err))
		} else {
			visitor.Country = loc.Country
			visitor.City = loc.City
			visitor.Region = loc.Region
			visitor.Timezone = loc.Timezone
			visitor.ISP = loc.ISP
		}
	}

	if err := s.db.WithContext(ctx).Create(visitor).Error; err != nil {
		return nil, fmt.Errorf("record visitor: %v: %w", err, apperrors.ErrStoreUnavailable)
	}
	return visitor, nil
}

// EventDTO is the client-supplied part of a blog interaction event.
type EventDTO struct {
	Slug      string                 `json:"slug"`
	Title     string                 `json:"title"`
	Kind      string                 `json:"kind"`
	Payload   map[string]interface{} `json:"payload"`
	VisitorID string                 `json:"visitor_id"`
}

// RecordEvent inserts one blog event row after validating the event kind.
func (s *Service) RecordEvent(ctx context.Context, dto *EventDTO, ip, userAgent string) (*models.BlogEventModel, error) {
	kind := strings.ToLower(strings.TrimSpace(dto.Kind))
	if !eventKinds[kind] {
		return nil, &apperrors.ValidationError{Reason: fmt.Sprintf("unknown event kind %q", dto.Kind)}
	}
	if dto.Slug == "" {
		return nil, apperrors.NewValidation("slug")
	}

	event := &models.BlogEventModel{
		Slug:      dto.Slug,
		Title:     dto.Title,
		Kind:      kind,
		Payload:   dto.Payload,
		VisitorID: dto.VisitorID,
		IP:        ip,
		UserAgent: userAgent,
		Timestamp: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, fmt.Errorf("record event: %v: %w", err, apperrors.ErrStoreUnavailable)
	}
	return event, nil
}

// ListVisitors returns visitor rows, newest first.
func (s *Service) ListVisitors(ctx context.Context, offset, limit int) ([]models.VisitorModel, int64, error) {
	var total int64
	tx := s.db.WithContext(ctx).Model(&models.VisitorModel{})
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count visitors: %v: %w", err, apperrors.ErrStoreUnavailable)
	}

	var items []models.VisitorModel
	if err := tx.Order("timestamp DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("list visitors: %v: %w", err, apperrors.ErrStoreUnavailable)
	}
	return items, total, nil
}

// ListEvents returns blog events, newest first, optionally filtered by slug.
func (s *Service) ListEvents(ctx context.Context, slug string, offset, limit int) ([]models.BlogEventModel, int64, error) {
	tx := s.db.WithContext(ctx).Model(&models.BlogEventModel{})
	if slug != "" {
		tx = tx.Where("slug = ?", slug)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count events: %v: %w", err, apperrors.ErrStoreUnavailable)
	}

	var items []models.BlogEventModel
	if err := tx.Order("timestamp DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("list events: %v: %w", err, apperrors.ErrStoreUnavailable)
	}
	return items, total, nil
}

// startOfDay returns midnight of t's calendar day in t's own location, so
// "today" follows the deployment timezone rather than the UTC epoch day.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Summary aggregates today's traffic for the admin dashboard.
func (s *Service) Summary(ctx context.Context) (map[string]int64, error) {
	dayStart := startOfDay(time.Now())

	out := map[string]int64{}
	var visits int64
	if err := s.db.WithContext(ctx).Model(&models.VisitorModel{}).
		Where("timestamp >= ?", dayStart).Count(&visits).Error; err != nil {
		return nil, fmt.Errorf("summary visits: %v: %w", err, apperrors.ErrStoreUnavailable)
	}
	out["visits_today"] = visits

	var events int64
	if err := s.db.WithContext(ctx).Model(&models.BlogEventModel{}).
		Where("timestamp >= ?", dayStart).Count(&events).Error; err != nil {
		return nil, fmt.Errorf("summary events: %v: %w", err, apperrors.ErrStoreUnavailable)
	}
	out["blog_events_today"] = events

	return out, nil
}

// CleanupBefore hard-deletes visitor rows older than the cutoff. Retention
// pruning is the one sanctioned deletion on the append-only tables.
func (s *Service) CleanupBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Unscoped().
		Where("timestamp < ?", cutoff).
		Delete(&models.VisitorModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("cleanup visitors: %v: %w", res.Error, apperrors.ErrStoreUnavailable)
	}
	return res.RowsAffected, nil
}

// isBotUA reports whether the User-Agent string indicates a bot/crawler.
func isBotUA(ua string) bool {
	lower := strings.ToLower(ua)
	for _, kw := range []string{"bot", "crawler", "spider", "headless", "wget", "curl", "python-requests", "go-http", "scrapy"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
