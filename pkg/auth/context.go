package auth

import "context"

type ctxKey int

const (
	usernameKey ctxKey = iota
	permissionsKey
)

// WithUsername stores the authenticated console username on ctx.
func WithUsername(ctx context.Context, username string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, usernameKey, username)
}

// UsernameFromContext returns the console username, or "" for anonymous work
// such as background reconcile cycles.
func UsernameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	username, _ := ctx.Value(usernameKey).(string)
	return username
}

func WithPermissions(ctx context.Context, permissions []string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, permissionsKey, permissions)
}

func PermissionsFromContext(ctx context.Context) []string {
	if ctx == nil {
		return nil
	}
	permissions, _ := ctx.Value(permissionsKey).([]string)
	return permissions
}
