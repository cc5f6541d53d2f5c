package models

// ProjectModel stores portfolio projects.
type ProjectModel struct {
	Base
	Title        string      `json:"title"        gorm:"not null"`
	Description  string      `json:"description"  gorm:"type:text;not null"`
	Image        string      `json:"image"`
	Technologies StringArray `json:"technologies" gorm:"type:longtext"`
	Category     string      `json:"category"     gorm:"index;not null"`
	Featured     bool        `json:"featured"     gorm:"default:false"`
	LiveURL      string      `json:"live_url"`
	SourceURL    string      `json:"source_url"`
	Status       string      `json:"status"       gorm:"default:'Live'"`
}

func (ProjectModel) TableName() string { return "projects" }
