package models

import (
	"strings"
	"time"
)

// PluginTemplatePrefix marks notification templates owned by this plugin.
const PluginTemplatePrefix = "template-one-"

// NotificationTemplate mirrors the host's notification template extension.
// A non-nil DeletionTimestamp means the template is marked for deletion and
// waits to be finalized.
type NotificationTemplate struct {
	Name              string     `gorm:"primaryKey;type:text"`
	ReasonType        string     `gorm:"type:text;not null;default:''"`
	Language          string     `gorm:"type:text;not null;default:'default'"`
	Title             string     `gorm:"type:text;not null;default:''"`
	HTMLBody          string     `gorm:"column:html_body;type:text;not null;default:''"`
	RawBody           string     `gorm:"type:text;not null;default:''"`
	Version           int64      `gorm:"not null;default:0"`
	CreationTimestamp time.Time  `gorm:"type:timestamp;not null"`
	DeletionTimestamp *time.Time `gorm:"type:timestamp"`
}

func (NotificationTemplate) TableName() string { return "notification_templates" }

// IsDeleted reports whether the template is marked for deletion.
func (t NotificationTemplate) IsDeleted() bool {
	return t.DeletionTimestamp != nil
}

// IsPluginOwned reports whether the template name carries the plugin prefix.
func (t NotificationTemplate) IsPluginOwned() bool {
	return strings.HasPrefix(t.Name, PluginTemplatePrefix)
}

// PluginTemplateName returns the plugin-owned template name for a reason type.
func PluginTemplateName(reasonType string) string {
	return PluginTemplatePrefix + reasonType
}
