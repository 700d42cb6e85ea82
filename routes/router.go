package routes

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/cricbook/config"
	"github.com/DhavalSuthar-24/cricbook/internal/auth"
	"github.com/DhavalSuthar-24/cricbook/internal/commentary"
	"github.com/DhavalSuthar-24/cricbook/internal/live"
	"github.com/DhavalSuthar-24/cricbook/internal/match"
	"github.com/DhavalSuthar-24/cricbook/internal/middleware"
	"github.com/DhavalSuthar-24/cricbook/internal/notification"
	"github.com/DhavalSuthar-24/cricbook/internal/post"
	"github.com/DhavalSuthar-24/cricbook/internal/prediction"
	"github.com/DhavalSuthar-24/cricbook/internal/search"
	"github.com/DhavalSuthar-24/cricbook/internal/series"
	"github.com/DhavalSuthar-24/cricbook/internal/team"
	"github.com/DhavalSuthar-24/cricbook/internal/user"
)

// Dependencies are the process-wide resources the routes are built on.
// Redis may be nil; Notifier defaults to writing notifications directly.
type Dependencies struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Hub      *live.Hub
	Notifier notification.Notifier
}

// App is the engine plus the services background jobs share with it.
type App struct {
	Engine        *gin.Engine
	Matches       match.MatchRepository
	Keeper        *match.ScoreKeeper
	Trending      *post.Trending
	Notifications notification.NotificationRepository
}

func SetupRoutes(d Dependencies) *App {
	cfg := d.Config

	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())
	origins := parseOrigins(cfg.App.FrontendURL)
	r.Use(cors.New(corsConfig(origins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	notifications := notification.NewNotificationRepository(d.DB)
	notifier := d.Notifier
	if notifier == nil {
		notifier = notification.NewDirectNotifier(notifications)
	}

	users := user.NewUserRepository(d.DB)
	teams := team.NewTeamRepository(d.DB)
	seriesRepo := series.NewSeriesRepository(d.DB)
	matches := match.NewGormMatchRepository(d.DB)
	predictions := prediction.NewPredictionRepository(d.DB)
	posts := post.NewPostRepository(d.DB)

	cache := live.NewScoreCache(d.Redis, cfg.Redis.ScoreCacheTTL)
	stream := live.NewStreamPublisher(d.Redis, cfg.Redis.ScoreStream, cfg.Redis.StreamMaxLen)
	keeper := match.NewScoreKeeper(matches, live.NewPublisher(d.Hub, stream, cache), predictions, notifier)
	trending := post.NewTrending(posts, d.Redis, cfg.Redis.TrendingTTL)

	authMW := middleware.AuthMiddleware(cfg.JWT.AccessTokenSecret, d.DB)
	optionalMW := middleware.OptionalAuth(cfg.JWT.AccessTokenSecret, d.DB)

	api := r.Group("/api")

	auth.RegisterAuthRoutes(api, d.DB, cfg, users, authMW,
		middleware.RateLimit(cfg.RateLimit, d.Redis, "auth"))
	user.UserRoutes(api, user.NewUserController(users, posts, notifier), authMW, optionalMW)
	team.TeamRoutes(api, team.NewTeamController(teams), authMW)
	series.SeriesRoutes(api, series.NewSeriesController(seriesRepo), authMW)
	match.MatchRoutes(api, match.NewMatchController(matches, keeper, teams, seriesRepo), authMW)
	commentary.CommentaryRoutes(api, commentary.NewCommentaryController(commentary.NewCommentaryRepository(d.DB), matches, keeper), authMW, optionalMW)
	prediction.PredictionRoutes(api, prediction.NewPredictionController(predictions, matches), authMW, optionalMW)
	post.PostRoutes(api, post.NewPostController(posts, matches, users, notifier, trending), authMW, optionalMW,
		middleware.RateLimit(cfg.RateLimit, d.Redis, "posts"))
	notification.NotificationRoutes(api, notifications, authMW)
	search.SearchRoutes(api, search.NewSearchController(search.NewService(users, posts, teams, matches)))
	wsOrigins := origins
	if len(wsOrigins) == 0 {
		wsOrigins = []string{"*"}
	}
	live.LiveRoutes(api, live.NewLiveController(d.Hub, cache, matches, wsOrigins...))

	return &App{
		Engine:        r,
		Matches:       matches,
		Keeper:        keeper,
		Trending:      trending,
		Notifications: notifications,
	}
}

func parseOrigins(frontendURL string) []string {
	var origins []string
	for _, o := range strings.Split(frontendURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// corsConfig allows origins, or any origin when origins is empty or "*".
func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
