package storeapi

import (
	"context"
	"errors"
	"net"
	"regexp"
)

// Notifier shows a transient, non-blocking message to the console user.
type Notifier interface {
	Error(ctx context.Context, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, message string)

func (f NotifierFunc) Error(ctx context.Context, message string) {
	f(ctx, message)
}

// Messages holds the fixed user-facing texts.
type Messages struct {
	Connectivity string
	Unknown      string
}

// DefaultMessages are the localized texts used when a Client is built
// without WithMessages.
var DefaultMessages = Messages{
	Connectivity: "网络错误，请检查网络连接",
	Unknown:      "未知错误",
}

func (m Messages) withDefaults() Messages {
	if m.Connectivity == "" {
		m.Connectivity = DefaultMessages.Connectivity
	}
	if m.Unknown == "" {
		m.Unknown = DefaultMessages.Unknown
	}
	return m
}

// Kind is the failure category, evaluated in declaration order.
type Kind string

const (
	// KindConnectivity: the transport could not reach the store.
	KindConnectivity Kind = "connectivity"
	// KindNoResponse: the call ended without a status line, e.g. timeout or cancellation.
	KindNoResponse Kind = "no_response"
	// KindServerProblem: the store answered with a problem body carrying text.
	KindServerProblem Kind = "server_problem"
	// KindUnknown: the store answered but said nothing displayable.
	KindUnknown Kind = "unknown"
)

// Classification is the outcome of inspecting one failure.
type Classification struct {
	Kind    Kind
	Message string
}

// networkErrorPattern matches transport errors whose message reads
// "Network Error", as raised by proxies and XHR-style transports.
var networkErrorPattern = regexp.MustCompile(`Network Error`)

// Classify maps a failure to exactly one category and the message to display.
func (m Messages) Classify(err error) Classification {
	m = m.withDefaults()

	if isNetworkError(err) {
		return Classification{Kind: KindConnectivity, Message: m.Connectivity}
	}

	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		return Classification{Kind: KindNoResponse, Message: m.Connectivity}
	}

	if msg := respErr.Problem.DisplayMessage(); msg != "" {
		return Classification{Kind: KindServerProblem, Message: msg}
	}
	return Classification{Kind: KindUnknown, Message: m.Unknown}
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if networkErrorPattern.MatchString(err.Error()) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return !opErr.Timeout()
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// intercept emits one notification and hands back err untouched.
func (c *Client) intercept(ctx context.Context, err error) error {
	c.notifier.Error(ctx, c.messages.Classify(err).Message)
	return err
}
