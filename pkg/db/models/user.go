package models

import "time"

// User is the console account a request is made on behalf of.
type User struct {
	Name        string    `gorm:"primaryKey;type:text"`
	Email       string    `gorm:"type:text;not null;default:''"`
	DisplayName string    `gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time `gorm:"type:timestamp;not null"`
}

func (User) TableName() string { return "users" }
