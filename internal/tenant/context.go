package tenant

import "context"

type ctxKey struct{}

// WithDomain attaches the resolved tenant domain to ctx.
func WithDomain(ctx context.Context, domain string) context.Context {
	return context.WithValue(ctx, ctxKey{}, domain)
}

// Domain returns the resolved tenant domain, or "" when none was resolved.
func Domain(ctx context.Context) string {
	v, _ := ctx.Value(ctxKey{}).(string)
	return v
}
