package responses

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParamID parses a numeric path parameter. On failure it writes a 400
// naming the parameter and returns false.
func ParamID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// QueryID parses an optional numeric query parameter. Missing or malformed
// values yield nil.
func QueryID(c *gin.Context, name string) *uint {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return nil
	}
	v := uint(id)
	return &v
}
