package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DhavalSuthar-24/cricbook/internal/common"
	"github.com/DhavalSuthar-24/cricbook/internal/notification"
	"github.com/DhavalSuthar-24/cricbook/internal/testdb"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePosts map[uint]int64

func (f fakePosts) CountByAuthor(_ context.Context, id uint) (int64, error) { return f[id], nil }

func seedUsers(t *testing.T, db *gorm.DB, names ...string) []*User {
	var out []*User
	for _, n := range names {
		u := &User{Username: n, Name: strings.ToUpper(n[:1]) + n[1:], Password: "x", Role: common.RoleUser}
		require.NoError(t, db.Create(u).Error)
		out = append(out, u)
	}
	return out
}

func TestRepository_ToggleFollowAndCounts(t *testing.T) {
	db := testdb.Open(t, &User{}, &Follow{})
	repo := NewUserRepository(db)
	ctx := context.Background()
	u := seedUsers(t, db, "rohit", "virat", "bumrah")

	following, err := repo.ToggleFollow(ctx, u[0].ID, u[1].ID)
	require.NoError(t, err)
	assert.True(t, following)
	_, err = repo.ToggleFollow(ctx, u[2].ID, u[1].ID)
	require.NoError(t, err)

	followers, followingCount, err := repo.FollowCounts(ctx, u[1].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), followers)
	assert.Zero(t, followingCount)

	page, total, err := repo.Followers(ctx, u[1].ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, page, 2)

	page, total, err = repo.Following(ctx, u[0].ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, page, 1)
	assert.Equal(t, "virat", page[0].Username)

	following, err = repo.ToggleFollow(ctx, u[0].ID, u[1].ID)
	require.NoError(t, err)
	assert.False(t, following)

	isFollowing, err := repo.IsFollowing(ctx, u[0].ID, u[1].ID)
	require.NoError(t, err)
	assert.False(t, isFollowing)
}

func TestRepository_LookupsAndSearch(t *testing.T) {
	db := testdb.Open(t, &User{}, &Follow{})
	repo := NewUserRepository(db)
	ctx := context.Background()
	seedUsers(t, db, "smriti", "shafali", "harman")

	u, err := repo.GetByUsername(ctx, "SMRITI")
	require.NoError(t, err)
	require.NotNil(t, u)

	missing, err := repo.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	taken, err := repo.UsernameTaken(ctx, "Harman")
	require.NoError(t, err)
	assert.True(t, taken)

	found, err := repo.Search(ctx, "sh", 10)
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, "shafali", found[0].Username)

	actors, err := repo.FindByUsernames(ctx, []string{"Smriti", "harman", "ghost"})
	require.NoError(t, err)
	assert.Len(t, actors, 2)
}

func newRouter(t *testing.T) (*gin.Engine, *gorm.DB, []*User) {
	db := testdb.Open(t, &User{}, &Follow{}, &notification.Notification{})
	users := seedUsers(t, db, "alice", "bob")
	repo := NewUserRepository(db)
	uc := NewUserController(repo, fakePosts{users[1].ID: 3}, notification.NewDirectNotifier(notification.NewNotificationRepository(db)))

	asAlice := func(c *gin.Context) {
		common.SetPrincipal(c, common.Principal{UserID: users[0].ID, Username: "alice", Role: common.RoleUser})
		c.Next()
	}
	r := gin.New()
	UserRoutes(r.Group("/api"), uc, asAlice, asAlice)
	return r, db, users
}

func TestController_FollowNotifiesAndRejectsSelf(t *testing.T) {
	r, db, users := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/users/alice/follow", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/users/bob/follow", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var notes []notification.Notification
	require.NoError(t, db.Find(&notes).Error)
	require.Len(t, notes, 1)
	assert.Equal(t, users[1].ID, notes[0].RecipientID)
	assert.Equal(t, notification.TypeFollow, notes[0].Type)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users/bob", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data Profile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Data.FollowerCount)
	assert.Equal(t, int64(3), body.Data.PostCount)
	assert.True(t, body.Data.IsFollowing)
}

func TestController_UpdateMeValidates(t *testing.T) {
	r, _, _ := newRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/users/me", strings.NewReader(`{"bio":"`+strings.Repeat("x", 161)+`"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/users/me", strings.NewReader(`{"bio":"Cover drives only","favorite_team":"India"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data Profile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Cover drives only", body.Data.Bio)
	assert.Equal(t, "India", body.Data.FavoriteTeam)
}
