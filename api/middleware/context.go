package middleware

import (
	"context"

	pkgAuth "github.com/kunkunyu/mailtemplate/pkg/auth"
)

// The claims live in pkg/auth so non-HTTP packages can read the caller.

func UsernameFromContext(ctx context.Context) string {
	return pkgAuth.UsernameFromContext(ctx)
}

func PermissionsFromContext(ctx context.Context) []string {
	return pkgAuth.PermissionsFromContext(ctx)
}

// WithUsername injects the console username into the context.
func WithUsername(ctx context.Context, username string) context.Context {
	return pkgAuth.WithUsername(ctx, username)
}

// WithPermissions injects the caller's granted permissions into the context.
func WithPermissions(ctx context.Context, permissions []string) context.Context {
	return pkgAuth.WithPermissions(ctx, permissions)
}
