package notifications

import "strings"

const (
	anonymousUserPrefix = "anonymousUser#"

	// UserKind is the subject kind used when a subscription targets a user.
	UserKind = "User"
	// UserAPIVersion is the group/version of the user subject kind.
	UserAPIVersion = "v1alpha1"
)

// AnonymousWithEmail builds the identity name for a subscriber known only by email.
func AnonymousWithEmail(email string) string {
	return anonymousUserPrefix + strings.TrimSpace(email)
}

// IsAnonymous reports whether name is an email-only identity.
func IsAnonymous(name string) bool {
	return strings.HasPrefix(name, anonymousUserPrefix)
}

// Subscriber identifies who receives notifications.
type Subscriber struct {
	Name string
}

// ReasonSubject narrows an interest to reasons about a specific object.
type ReasonSubject struct {
	APIVersion string
	Kind       string
	Name       string
}

// InterestReason describes which reasons a subscriber wants.
type InterestReason struct {
	ReasonType string
	Subject    ReasonSubject
	Expression string
}

// Subject is the object a reason is about, with a display title.
type Subject struct {
	APIVersion string
	Kind       string
	Name       string
	Title      string
	URL        string
}

// ReasonAttributes is the payload of an emitted reason.
type ReasonAttributes struct {
	Author     string
	Subject    Subject
	Attributes map[string]any
}
