package responses

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(45, 2, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNextPage)
	assert.True(t, p.HasPrevPage)
	require.NotNil(t, p.NextPage)
	assert.Equal(t, 3, *p.NextPage)
	require.NotNil(t, p.PreviousPage)
	assert.Equal(t, 1, *p.PreviousPage)

	p = NewPagination(0, 1, 20)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNextPage)
	assert.Nil(t, p.NextPage)
}

func TestPageParams(t *testing.T) {
	cases := []struct {
		query    string
		page     int
		pageSize int
	}{
		{"", 1, DefaultPageSize},
		{"page=3&limit=10", 3, 10},
		{"page=2&page_size=5&limit=50", 2, 5},
		{"page=-4&limit=1000", 1, MaxPageSize},
		{"page=abc&limit=xyz", 1, DefaultPageSize},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)

		page, size := PageParams(c)
		assert.Equal(t, tc.page, page, tc.query)
		assert.Equal(t, tc.pageSize, size, tc.query)
	}
}

func TestSendError_StatusText(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SendError(c, http.StatusServiceUnavailable, "down")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "fail", body.Status)
	assert.Equal(t, http.StatusServiceUnavailable, body.Code)
	assert.True(t, c.IsAborted())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	NotFound(c, "Match")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, "Match not found", body.Message)
}
