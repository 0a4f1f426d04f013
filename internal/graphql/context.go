package graphql

import (
	"context"
	"strconv"

	"github.com/AlvinAbiero/online-marketplace/internal/marketplace"
)

type contextKey int

const principalKey contextKey = iota

// WithPrincipal attaches the decoded principal (possibly nil for
// anonymous requests) to the resolver context.
func WithPrincipal(ctx context.Context, p *marketplace.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFrom(ctx context.Context) *marketplace.Principal {
	p, _ := ctx.Value(principalKey).(*marketplace.Principal)
	return p
}

// parseID coerces a GraphQL ID argument into a numeric id. GraphQL
// clients may send IDs as strings or integers.
func parseID(value interface{}) uint {
	switch v := value.(type) {
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0
		}
		return uint(n)
	case int:
		if v < 0 {
			return 0
		}
		return uint(v)
	case float64:
		if v < 0 {
			return 0
		}
		return uint(v)
	}
	return 0
}
