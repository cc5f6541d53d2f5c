package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foliospace/core/internal/models"
	"github.com/foliospace/core/internal/pkg/apperrors"
	"github.com/foliospace/core/internal/pkg/geoip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubGeo struct {
	loc *geoip.Location
	err error
}

func (s *stubGeo) Lookup(context.Context, string) (*geoip.Location, error) {
	return s.loc, s.err
}

func testService(t *testing.T, geo GeoLookup) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.VisitorModel{}, &models.BlogEventModel{}))
	return NewService(db, geo, zap.NewNop()), db
}

func TestRecordVisitorEnrichesGeo(t *testing.T) {
	svc, _ := testService(t, &stubGeo{loc: &geoip.Location{
		Country:  "Germany",
		City:     "Berlin",
		Region:   "Berlin",
		Timezone: "Europe/Berlin",
		ISP:      "Example ISP",
	}})

	visitor, err := svc.RecordVisitor(context.Background(), &VisitorDTO{
		PageURL:   "/projects",
		SessionID: "sess-1",
	}, "203.0.113.7", "Mozilla/5.0")
	require.NoError(t, err)

	assert.Equal(t, "Germany", visitor.Country)
	assert.Equal(t, "Berlin", visitor.City)
	assert.Equal(t, "203.0.113.7", visitor.IP)
	assert.NotEmpty(t, visitor.ID)
}

func TestRecordVisitorSurvivesGeoFailure(t *testing.T) {
	svc, db := testService(t, &stubGeo{err: errors.New("lookup timeout")})

	visitor, err := svc.RecordVisitor(context.Background(), &VisitorDTO{
		PageURL: "/",
	}, "203.0.113.8", "Mozilla/5.0")
	require.NoError(t, err)
	assert.Empty(t, visitor.Country)

	var n int64
	require.NoError(t, db.Model(&models.VisitorModel{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestRecordVisitorWithoutGeoLookup(t *testing.T) {
	svc, _ := testService(t, nil)

	visitor, err := svc.RecordVisitor(context.Background(), &VisitorDTO{}, "203.0.113.9", "ua")
	require.NoError(t, err)
	assert.Empty(t, visitor.Country)
}

func TestRecordEventValidatesKind(t *testing.T) {
	svc, db := testService(t, nil)

	_, err := svc.RecordEvent(context.Background(), &EventDTO{
		Slug: "my-post", Kind: "hover",
	}, "203.0.113.1", "ua")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.RecordEvent(context.Background(), &EventDTO{
		Kind: "view",
	}, "203.0.113.1", "ua")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "slug")

	var n int64
	require.NoError(t, db.Model(&models.BlogEventModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRecordEventNormalizesKind(t *testing.T) {
	svc, _ := testService(t, nil)

	event, err := svc.RecordEvent(context.Background(), &EventDTO{
		Slug: "my-post", Kind: " VIEW ",
	}, "203.0.113.1", "ua")
	require.NoError(t, err)
	assert.Equal(t, "view", event.Kind)
}

func TestListEventsFilterBySlug(t *testing.T) {
	svc, _ := testService(t, nil)

	for _, slug := range []string{"a", "a", "b"} {
		_, err := svc.RecordEvent(context.Background(), &EventDTO{Slug: slug, Kind: "view"}, "ip", "ua")
		require.NoError(t, err)
	}

	events, total, err := svc.ListEvents(context.Background(), "a", 0, 50)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, events, 2)

	all, total, err := svc.ListEvents(context.Background(), "", 0, 50)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)
}

func TestCleanupBefore(t *testing.T) {
	svc, db := testService(t, nil)

	old := models.VisitorModel{IP: "1.1.1.1", Timestamp: time.Now().AddDate(0, 0, -120)}
	require.NoError(t, db.Create(&old).Error)
	_, err := svc.RecordVisitor(context.Background(), &VisitorDTO{}, "2.2.2.2", "ua")
	require.NoError(t, err)

	removed, err := svc.CleanupBefore(context.Background(), time.Now().AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	var n int64
	require.NoError(t, db.Model(&models.VisitorModel{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestStartOfDayUsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)

	// 01:30 local is still the previous day in UTC; the day boundary must
	// come from the local calendar, not the UTC epoch day.
	at := time.Date(2026, 3, 5, 1, 30, 0, 0, loc)
	start := startOfDay(at)

	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, loc), start)
	assert.Equal(t, loc, start.Location())
	assert.True(t, start.Before(at))
	assert.Equal(t, 5, start.Day())
}

func TestIsBotUA(t *testing.T) {
	assert.True(t, isBotUA("Googlebot/2.1 (+http://www.google.com/bot.html)"))
	assert.True(t, isBotUA("curl/8.5.0"))
	assert.True(t, isBotUA("python-requests/2.31"))
	assert.False(t, isBotUA("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"))
}
