package common

import (
	"errors"

	"github.com/gin-gonic/gin"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	// ContextPrincipalKey is where the auth middleware stores the caller.
	ContextPrincipalKey = "principal"
)

var ErrNoPrincipal = errors.New("no authenticated principal in context")

// Principal is the authenticated caller. Handlers read it once from the
// request and hand it to services and repositories explicitly.
type Principal struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Viewer is an optional principal used by read paths that personalise
// results (is_liked, is_following, ...). Zero means anonymous.
func (p *Principal) Viewer() uint {
	if p == nil {
		return 0
	}
	return p.UserID
}

// SetPrincipal stores the caller on the gin context.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(ContextPrincipalKey, p)
}

// PrincipalFromContext returns the caller set by the auth middleware.
func PrincipalFromContext(c *gin.Context) (Principal, error) {
	v, exists := c.Get(ContextPrincipalKey)
	if !exists {
		return Principal{}, ErrNoPrincipal
	}
	p, ok := v.(Principal)
	if !ok {
		return Principal{}, errors.New("principal in context has unexpected type")
	}
	return p, nil
}

// OptionalPrincipal returns the caller or nil for anonymous requests.
func OptionalPrincipal(c *gin.Context) *Principal {
	p, err := PrincipalFromContext(c)
	if err != nil {
		return nil
	}
	return &p
}
