package models

import "time"

// Reason is an emitted notification event.
type Reason struct {
	ID           string         `gorm:"primaryKey;type:text"`
	ReasonType   string         `gorm:"type:text;not null"`
	Author       string         `gorm:"type:text;not null;default:''"`
	SubjectAPI   string         `gorm:"column:subject_api_version;type:text;not null;default:''"`
	SubjectKind  string         `gorm:"type:text;not null;default:''"`
	SubjectName  string         `gorm:"type:text;not null;default:''"`
	SubjectTitle string         `gorm:"type:text;not null;default:''"`
	SubjectURL   string         `gorm:"column:subject_url;type:text;not null;default:''"`
	Attributes   map[string]any `gorm:"type:text;serializer:json"`
	CreatedAt    time.Time      `gorm:"type:timestamp;not null"`
}

func (Reason) TableName() string { return "reasons" }
