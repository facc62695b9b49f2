package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pa1nf0rce/yatube/internal/api/middleware"
	"github.com/pa1nf0rce/yatube/internal/db"
	"github.com/pa1nf0rce/yatube/internal/models"
	"github.com/pa1nf0rce/yatube/pkg/config"
	"github.com/pa1nf0rce/yatube/pkg/logging"
)

// AuthAPI serves signup and login
type AuthAPI struct {
	users  *db.UserRepository
	cfg    *config.AuthConfig
	logger *zap.Logger
}

// NewAuthAPI creates a new auth API
func NewAuthAPI(repo *db.Repository, cfg *config.AuthConfig) *AuthAPI {
	return &AuthAPI{
		users:  db.NewUserRepository(repo),
		cfg:    cfg,
		logger: logging.WithComponent("auth-api"),
	}
}

// Signup handles POST /auth/signup/
func (a *AuthAPI) Signup(c *gin.Context) {
	ctx := c.Request.Context()

	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	errs := gin.H{}
	if username == "" {
		errs["username"] = "This field is required"
	}
	if password == "" {
		errs["password"] = "This field is required"
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	existing, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		serverError(c, a.logger, "Failed to check username", err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"username": "A user with that username already exists"}})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		serverError(c, a.logger, "Failed to hash password", err)
		return
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    c.PostForm("first_name"),
		LastName:     c.PostForm("last_name"),
	}
	if err := a.users.Create(ctx, user); err != nil {
		serverError(c, a.logger, "Failed to create user", err)
		return
	}

	a.logger.Info("User registered", zap.String("username", username))
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// LoginForm handles GET /auth/login/, the target of the auth redirect. It
// echoes the next parameter so a client can come back after logging in.
func (a *AuthAPI) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"detail": "Authentication required",
		"next":   c.Query("next"),
	})
}

// Login handles POST /auth/login/, issuing the session cookie
func (a *AuthAPI) Login(c *gin.Context) {
	ctx := c.Request.Context()

	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		serverError(c, a.logger, "Failed to load user", err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
		return
	}

	token, err := middleware.IssueToken(user, a.cfg)
	if err != nil {
		serverError(c, a.logger, "Failed to issue token", err)
		return
	}

	c.SetCookie(middleware.SessionCookie, token, int(a.cfg.TokenTTL/time.Second), "/", "", false, true)

	a.logger.Info("User logged in", zap.String("username", username))

	// An explicit next parameter sends the client back where it came from
	if next := c.Query("next"); next != "" && next[0] == '/' {
		c.Redirect(http.StatusFound, next)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
