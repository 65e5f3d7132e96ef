package models

import "time"

// ReasonProperty describes one attribute a reason of this type carries.
type ReasonProperty struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Optional    bool   `json:"optional,omitempty"`
}

// ReasonType is a kind of notification event templates are bound to.
type ReasonType struct {
	Name        string           `gorm:"primaryKey;type:text"`
	DisplayName string           `gorm:"type:text;not null"`
	Description string           `gorm:"type:text;not null;default:''"`
	Properties  []ReasonProperty `gorm:"type:text;serializer:json"`
	CreatedAt   time.Time        `gorm:"type:timestamp;not null"`
}

func (ReasonType) TableName() string { return "reason_types" }

// PropertyNames returns declared property names in order.
func (r ReasonType) PropertyNames() []string {
	names := make([]string, 0, len(r.Properties))
	for _, p := range r.Properties {
		names = append(names, p.Name)
	}
	return names
}
