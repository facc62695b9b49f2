package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pa1nf0rce/yatube/internal/api/middleware"
	"github.com/pa1nf0rce/yatube/internal/db"
	"github.com/pa1nf0rce/yatube/internal/models"
	"github.com/pa1nf0rce/yatube/internal/pagination"
	"github.com/pa1nf0rce/yatube/pkg/config"
	"github.com/pa1nf0rce/yatube/pkg/logging"
)

// FollowAPI serves the personalized feed and the follow/unfollow toggle
type FollowAPI struct {
	users   *db.UserRepository
	posts   *db.PostRepository
	follows *db.FollowRepository
	cfg     *config.PostsConfig
	logger  *zap.Logger
}

// NewFollowAPI creates a new follow API
func NewFollowAPI(repo *db.Repository, cfg *config.PostsConfig) *FollowAPI {
	return &FollowAPI{
		users:   db.NewUserRepository(repo),
		posts:   db.NewPostRepository(repo),
		follows: db.NewFollowRepository(repo),
		cfg:     cfg,
		logger:  logging.WithComponent("follow-api"),
	}
}

// Index handles GET /follow/ with posts by everyone the current user follows
func (a *FollowAPI) Index(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetCurrentUser(c)

	number := pagination.ParseNumber(c.Query("page"))

	total, err := a.posts.CountByFollowed(ctx, user.ID)
	if err != nil {
		serverError(c, a.logger, "Failed to count followed feed", err)
		return
	}

	number = pagination.Clamp(number, pagination.TotalPages(total, a.cfg.PageSize))
	items, err := a.posts.ListByFollowed(ctx, user.ID,
		pagination.Offset(number, a.cfg.PageSize), a.cfg.PageSize)
	if err != nil {
		serverError(c, a.logger, "Failed to load followed feed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page": pagination.NewPage(items, number, total, a.cfg.PageSize),
	})
}

// Follow handles POST /profile/:username/follow/. Creating the edge is
// idempotent; a self-follow is silently ignored.
func (a *FollowAPI) Follow(c *gin.Context) {
	a.toggle(c, func(ctx context.Context, user *models.User, author *models.User) error {
		if user.ID == author.ID {
			return nil
		}
		return a.follows.Create(ctx, user.ID, author.ID)
	})
}

// Unfollow handles POST /profile/:username/unfollow/. Removing an absent
// edge is a no-op.
func (a *FollowAPI) Unfollow(c *gin.Context) {
	a.toggle(c, func(ctx context.Context, user *models.User, author *models.User) error {
		return a.follows.Delete(ctx, user.ID, author.ID)
	})
}

// toggle resolves the target author, applies the edge change, and redirects
// back to the author's profile.
func (a *FollowAPI) toggle(c *gin.Context, apply func(ctx context.Context, user, author *models.User) error) {
	ctx := c.Request.Context()
	user := middleware.GetCurrentUser(c)

	author, err := a.users.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		serverError(c, a.logger, "Failed to load author", err)
		return
	}
	if author == nil {
		notFound(c)
		return
	}

	if err := apply(ctx, user, author); err != nil {
		serverError(c, a.logger, "Failed to update follow edge", err)
		return
	}

	c.Redirect(http.StatusFound, "/profile/"+author.Username+"/")
}
