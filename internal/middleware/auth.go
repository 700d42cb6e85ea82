package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/DhavalSuthar-24/cricbook/internal/common"
	"github.com/DhavalSuthar-24/cricbook/pkg/responses"
	"github.com/DhavalSuthar-24/cricbook/pkg/token"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errNoBearer = errors.New("authorization header is required")

// AuthMiddleware requires a valid bearer token for a user that still
// exists, and stores the resulting common.Principal on the context.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := authenticate(c, jwtSecret, db)
		if err != nil {
			responses.Unauthorized(c, err.Error())
			return
		}
		common.SetPrincipal(c, p)
		c.Next()
	}
}

// OptionalAuth resolves the principal when a bearer token is present and
// lets anonymous requests through. An invalid token is still rejected.
func OptionalAuth(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := authenticate(c, jwtSecret, db)
		if errors.Is(err, errNoBearer) {
			c.Next()
			return
		}
		if err != nil {
			responses.Unauthorized(c, err.Error())
			return
		}
		common.SetPrincipal(c, p)
		c.Next()
	}
}

func authenticate(c *gin.Context, jwtSecret string, db *gorm.DB) (common.Principal, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return common.Principal{}, errNoBearer
	}

	bearerToken := strings.Split(authHeader, " ")
	if len(bearerToken) != 2 || strings.ToLower(bearerToken[0]) != "bearer" {
		return common.Principal{}, errors.New("invalid Authorization header format, expected: Bearer <token>")
	}

	claims, err := token.ValidateJWT(bearerToken[1], jwtSecret)
	if err != nil {
		return common.Principal{}, errors.New("invalid or expired token: " + err.Error())
	}

	// The stored role wins over the token so demotions apply immediately.
	var row struct {
		ID       uint
		Username string
		Role     string
	}
	res := db.WithContext(c.Request.Context()).
		Table("users").
		Select("id, username, role").
		Where("id = ? AND deleted_at IS NULL", claims.UserID).
		Limit(1).
		Scan(&row)
	if res.Error != nil || res.RowsAffected == 0 {
		return common.Principal{}, errors.New("user not found or inactive")
	}

	return common.Principal{UserID: row.ID, Username: row.Username, Role: row.Role}, nil
}

// MustPrincipal returns the caller or writes a 401 and returns false.
func MustPrincipal(c *gin.Context) (common.Principal, bool) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
			Status:  "error",
			Message: "Unauthorized: " + err.Error(),
			Code:    http.StatusUnauthorized,
		})
		return common.Principal{}, false
	}
	return p, true
}
