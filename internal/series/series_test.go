package series

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/cricbook/internal/common"
	"github.com/DhavalSuthar-24/cricbook/internal/testdb"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRepository(t *testing.T) {
	db := testdb.Open(t, &Series{})
	repo := NewSeriesRepository(db)
	ctx := context.Background()
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	older, created, err := repo.FindOrCreateByName(ctx, "Ashes", Series{StartDate: day, EndDate: day.AddDate(0, 1, 0)})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, FormatInternational, older.Format)

	_, _, err = repo.FindOrCreateByName(ctx, "IPL", Series{StartDate: day.AddDate(0, 3, 0), EndDate: day.AddDate(0, 5, 0), Format: FormatLeague})
	require.NoError(t, err)

	same, created, err := repo.FindOrCreateByName(ctx, "Ashes", Series{})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, older.ID, same.ID)

	list, total, err := repo.List(ctx, 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "IPL", list[0].Name)

	list, _, err = repo.List(ctx, 1, 10, FormatLeague)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestController_Create(t *testing.T) {
	db := testdb.Open(t, &Series{})
	sc := NewSeriesController(NewSeriesRepository(db))
	admin := func(c *gin.Context) {
		common.SetPrincipal(c, common.Principal{UserID: 1, Role: common.RoleAdmin})
		c.Next()
	}
	r := gin.New()
	SeriesRoutes(r.Group("/api"), sc, admin)

	send := func(body string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/series", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	valid := `{"name":"World Cup 2027","start_date":"2027-10-01T00:00:00Z","end_date":"2027-11-20T00:00:00Z"}`
	assert.Equal(t, http.StatusCreated, send(valid))
	assert.Equal(t, http.StatusConflict, send(valid))
	assert.Equal(t, http.StatusBadRequest, send(`{"name":"Backwards","start_date":"2027-10-01T00:00:00Z","end_date":"2027-09-01T00:00:00Z"}`))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/series/1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "World Cup 2027")
}
