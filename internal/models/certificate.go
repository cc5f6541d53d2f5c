package models

// CertificateModel stores certifications and course completions.
type CertificateModel struct {
	Base
	Title       string      `json:"title"       gorm:"not null"`
	Issuer      string      `json:"issuer"      gorm:"not null"`
	Date        string      `json:"date"        gorm:"not null"`
	Description string      `json:"description" gorm:"type:text;not null"`
	Skills      StringArray `json:"skills"      gorm:"type:longtext"`
	Verified    bool        `json:"verified"    gorm:"default:false"`
	Status      string      `json:"status"      gorm:"default:'Active'"`
	Category    string      `json:"category"    gorm:"index"`
	Level       string      `json:"level"`
	Hours       int         `json:"hours"       gorm:"default:0"`
}

func (CertificateModel) TableName() string { return "certificates" }
