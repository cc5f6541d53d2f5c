package models

// ExperienceModel stores work-experience entries.
type ExperienceModel struct {
	Base
	Role         string      `json:"role"         gorm:"not null"`
	Company      string      `json:"company"      gorm:"not null"`
	Location     string      `json:"location"`
	StartDate    string      `json:"start_date"   gorm:"not null"`
	EndDate      string      `json:"end_date"`
	Description  string      `json:"description"  gorm:"type:text"`
	Technologies StringArray `json:"technologies" gorm:"type:longtext"`
	Category     string      `json:"category"     gorm:"index"`
	Current      bool        `json:"current"      gorm:"default:false"`
}

func (ExperienceModel) TableName() string { return "experiences" }
