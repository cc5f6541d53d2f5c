package models

// SkillModel stores skills shown in the skills section.
type SkillModel struct {
	Base
	Name     string `json:"name"     gorm:"not null"`
	Icon     string `json:"icon"     gorm:"not null"`
	Color    string `json:"color"    gorm:"not null"`
	Category string `json:"category" gorm:"index;not null"`
}

func (SkillModel) TableName() string { return "skills" }
