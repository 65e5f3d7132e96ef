package models

import "time"

// Subscription binds a subscriber to the reasons it is interested in.
type Subscription struct {
	ID             string    `gorm:"primaryKey;type:text"`
	SubscriberName string    `gorm:"type:text;not null;uniqueIndex:subscriptions_interest_unique"`
	ReasonType     string    `gorm:"type:text;not null;uniqueIndex:subscriptions_interest_unique"`
	SubjectAPI     string    `gorm:"column:subject_api_version;type:text;not null;default:''"`
	SubjectKind    string    `gorm:"type:text;not null;default:'';uniqueIndex:subscriptions_interest_unique"`
	SubjectName    string    `gorm:"type:text;not null;default:'';uniqueIndex:subscriptions_interest_unique"`
	Expression     string    `gorm:"type:text;not null;default:'';uniqueIndex:subscriptions_interest_unique"`
	CreatedAt      time.Time `gorm:"type:timestamp;not null"`
}

func (Subscription) TableName() string { return "subscriptions" }
