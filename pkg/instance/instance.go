package instance

import (
	"os"

	"github.com/kunkunyu/mailtemplate/pkg/env"
)

const (
	EnvInstanceID = "MAILTEMPLATE_INSTANCE_ID"

	fallbackID = "local"
)

// GetID returns the process identifier used in logs and reconcile lock ownership.
// It prefers MAILTEMPLATE_INSTANCE_ID, then the hostname.
func GetID() string {
	if id := env.Get(EnvInstanceID, ""); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallbackID
}
