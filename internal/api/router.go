package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pa1nf0rce/yatube/internal/api/middleware"
	"github.com/pa1nf0rce/yatube/internal/cache"
	"github.com/pa1nf0rce/yatube/internal/db"
	"github.com/pa1nf0rce/yatube/internal/media"
	"github.com/pa1nf0rce/yatube/pkg/config"
	"github.com/pa1nf0rce/yatube/pkg/logging"
)

// Router sets up API routes
type Router struct {
	db     *db.DB
	cache  *cache.Cache
	cfg    *config.Config
	logger *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, redisCache *cache.Cache, cfg *config.Config) *Router {
	return &Router{
		db:     database,
		cache:  redisCache,
		cfg:    cfg,
		logger: logging.WithComponent("api-router"),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	repo := db.NewRepository(r.db.DB)
	users := db.NewUserRepository(repo)
	mediaStore := media.NewStore(&r.cfg.Media)

	postsAPI := NewPostsAPI(repo, mediaStore, &r.cfg.Posts)
	followAPI := NewFollowAPI(repo, &r.cfg.Posts)
	authAPI := NewAuthAPI(repo, &r.cfg.Auth)

	engine.Use(middleware.CurrentUser(users, &r.cfg.Auth))
	engine.NoRoute(notFound)

	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	// Auth
	engine.POST("/auth/signup/", authAPI.Signup)
	engine.GET(middleware.LoginPath, authAPI.LoginForm)
	engine.POST(middleware.LoginPath, authAPI.Login)

	// Public feeds. Only the index page is cached; the 20 second window
	// serves byte-identical responses regardless of writes.
	engine.GET("/", r.cache.PageMiddleware(r.cfg.Posts.IndexCacheTTL), postsAPI.Index)
	engine.GET("/group/:slug/", postsAPI.GroupList)
	engine.GET("/profile/:username/", postsAPI.Profile)
	engine.GET("/posts/:id/", postsAPI.Detail)

	// Authenticated operations
	auth := engine.Group("", middleware.LoginRequired())
	auth.GET("/create/", postsAPI.CreateForm)
	auth.POST("/create/", postsAPI.Create)
	auth.GET("/posts/:id/edit/", postsAPI.EditForm)
	auth.POST("/posts/:id/edit/", postsAPI.Edit)
	auth.POST("/posts/:id/comment/", postsAPI.AddComment)
	auth.GET("/follow/", followAPI.Index)
	auth.POST("/profile/:username/follow/", followAPI.Follow)
	auth.POST("/profile/:username/unfollow/", followAPI.Unfollow)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "OK",
		"service": "yatube-api",
	})
}
