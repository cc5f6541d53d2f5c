package models

import "time"

// VisitorModel logs one site visit. Rows are append-only: never updated or
// deleted by normal flow.
type VisitorModel struct {
	Base
	IP        string    `json:"ip"         gorm:"index"`
	UserAgent string    `json:"user_agent" gorm:"type:text"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	Region    string    `json:"region"`
	Timezone  string    `json:"timezone"`
	ISP       string    `json:"isp"`
	PageURL   string    `json:"page_url"`
	Referrer  string    `json:"referrer"`
	SessionID string    `json:"session_id" gorm:"index"`
	Timestamp time.Time `json:"timestamp"  gorm:"index"`
}

func (VisitorModel) TableName() string { return "visitors" }
