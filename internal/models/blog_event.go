package models

import "time"

// BlogEventModel logs one blog interaction event (view/read/click/share).
// Rows are append-only.
type BlogEventModel struct {
	Base
	Slug      string                 `json:"slug"       gorm:"index"`
	Title     string                 `json:"title"`
	Kind      string                 `json:"kind"       gorm:"index;not null"`
	Payload   map[string]interface{} `json:"payload"    gorm:"type:longtext;serializer:json"`
	VisitorID string                 `json:"visitor_id" gorm:"index"`
	IP        string                 `json:"ip"`
	UserAgent string                 `json:"user_agent" gorm:"type:text"`
	Timestamp time.Time              `json:"timestamp"  gorm:"index"`
}

func (BlogEventModel) TableName() string { return "blog_events" }
