package jwt

import (
	"context"
	"fmt"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/go-chi/jwtauth/v5"
)

// Claims is the identity carried by every bearer token.
type Claims struct {
	BusinessID  string
	StaffID     string
	UserID      string
	Role        staff.Role
	Permissions []staff.Permission
}

// Can reports whether the caller holds permission through their role or a custom grant.
func (c Claims) Can(permission staff.Permission) bool {
	return staff.HasPermission(c.Role, permission, c.Permissions...)
}

func (c Claims) toMap() map[string]interface{} {
	perms := make([]string, 0, len(c.Permissions))
	for _, p := range c.Permissions {
		perms = append(perms, string(p))
	}
	m := map[string]interface{}{
		"business_id": c.BusinessID,
		"staff_id":    c.StaffID,
		"role":        string(c.Role),
		"permissions": perms,
	}
	if c.UserID != "" {
		m["user_id"] = c.UserID
	}
	return m
}

// ClaimsFromContext reads the verified token placed in ctx by jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	return claimsFromMap(claims)
}

// BusinessIDFromContext is a shortcut for services that only need the tenant.
func BusinessIDFromContext(ctx context.Context) (string, error) {
	claims, err := ClaimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	return claims.BusinessID, nil
}

func claimsFromMap(m map[string]interface{}) (Claims, error) {
	businessID, ok := m["business_id"].(string)
	if !ok || businessID == "" {
		return Claims{}, fmt.Errorf("business_id claim is missing or invalid: %w", ErrMissingClaims)
	}

	c := Claims{BusinessID: businessID}
	c.StaffID, _ = m["staff_id"].(string)
	c.UserID, _ = m["user_id"].(string)
	role, _ := m["role"].(string)
	c.Role = staff.Role(role)

	switch perms := m["permissions"].(type) {
	case []string:
		for _, p := range perms {
			c.Permissions = append(c.Permissions, staff.Permission(p))
		}
	case []interface{}:
		for _, p := range perms {
			if s, ok := p.(string); ok {
				c.Permissions = append(c.Permissions, staff.Permission(s))
			}
		}
	}

	return c, nil
}
