package auth

import "github.com/golang-jwt/jwt/v5"

// Claims are the only supported JWT claims shape for this service.
// Multi-tenant invariant: TenantDomain must be present; requests never
// choose their tenant any other way in token mode.
type Claims struct {
	jwt.RegisteredClaims

	TenantDomain string `json:"tenant_domain"`
}
