package api

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pa1nf0rce/yatube/internal/api/middleware"
	"github.com/pa1nf0rce/yatube/internal/db"
	"github.com/pa1nf0rce/yatube/internal/forms"
	"github.com/pa1nf0rce/yatube/internal/media"
	"github.com/pa1nf0rce/yatube/internal/models"
	"github.com/pa1nf0rce/yatube/internal/pagination"
	"github.com/pa1nf0rce/yatube/pkg/config"
	"github.com/pa1nf0rce/yatube/pkg/logging"
	"github.com/pa1nf0rce/yatube/pkg/telemetry"
)

// PostsAPI serves the feeds and the post lifecycle
type PostsAPI struct {
	users    *db.UserRepository
	groups   *db.GroupRepository
	posts    *db.PostRepository
	comments *db.CommentRepository
	follows  *db.FollowRepository
	media    *media.Store
	cfg      *config.PostsConfig
	logger   *zap.Logger
}

// NewPostsAPI creates a new posts API
func NewPostsAPI(repo *db.Repository, mediaStore *media.Store, cfg *config.PostsConfig) *PostsAPI {
	return &PostsAPI{
		users:    db.NewUserRepository(repo),
		groups:   db.NewGroupRepository(repo),
		posts:    db.NewPostRepository(repo),
		comments: db.NewCommentRepository(repo),
		follows:  db.NewFollowRepository(repo),
		media:    mediaStore,
		cfg:      cfg,
		logger:   logging.WithComponent("posts-api"),
	}
}

// postPage assembles one page of a post feed from count and list callbacks
func (a *PostsAPI) postPage(
	ctx context.Context,
	number int,
	count func(context.Context) (int64, error),
	list func(ctx context.Context, offset, limit int) ([]*models.Post, error),
) (pagination.Page[*models.Post], error) {
	var page pagination.Page[*models.Post]

	total, err := count(ctx)
	if err != nil {
		return page, err
	}

	number = pagination.Clamp(number, pagination.TotalPages(total, a.cfg.PageSize))
	items, err := list(ctx, pagination.Offset(number, a.cfg.PageSize), a.cfg.PageSize)
	if err != nil {
		return page, err
	}

	return pagination.NewPage(items, number, total, a.cfg.PageSize), nil
}

// Index handles GET / with all posts, newest-first
func (a *PostsAPI) Index(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "posts.index")
	defer span.End()

	number := pagination.ParseNumber(c.Query("page"))
	page, err := a.postPage(ctx, number, a.posts.CountAll, a.posts.ListAll)
	if err != nil {
		serverError(c, a.logger, "Failed to load index feed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page})
}

// GroupList handles GET /group/:slug/ with the group's posts
func (a *PostsAPI) GroupList(c *gin.Context) {
	ctx := c.Request.Context()

	group, err := a.groups.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		serverError(c, a.logger, "Failed to load group", err)
		return
	}
	if group == nil {
		notFound(c)
		return
	}

	number := pagination.ParseNumber(c.Query("page"))
	page, err := a.postPage(ctx, number,
		func(ctx context.Context) (int64, error) {
			return a.posts.CountByGroup(ctx, group.ID)
		},
		func(ctx context.Context, offset, limit int) ([]*models.Post, error) {
			return a.posts.ListByGroup(ctx, group.ID, offset, limit)
		},
	)
	if err != nil {
		serverError(c, a.logger, "Failed to load group feed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"group": group, "page": page})
}

// Profile handles GET /profile/:username/ with the author's posts. For an
// authenticated viewer the response also carries whether they already follow
// this author.
func (a *PostsAPI) Profile(c *gin.Context) {
	ctx := c.Request.Context()

	author, err := a.users.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		serverError(c, a.logger, "Failed to load author", err)
		return
	}
	if author == nil {
		notFound(c)
		return
	}

	number := pagination.ParseNumber(c.Query("page"))
	page, err := a.postPage(ctx, number,
		func(ctx context.Context) (int64, error) {
			return a.posts.CountByAuthor(ctx, author.ID)
		},
		func(ctx context.Context, offset, limit int) ([]*models.Post, error) {
			return a.posts.ListByAuthor(ctx, author.ID, offset, limit)
		},
	)
	if err != nil {
		serverError(c, a.logger, "Failed to load profile feed", err)
		return
	}

	following := false
	if viewer := middleware.GetCurrentUser(c); viewer != nil {
		following, err = a.follows.Exists(ctx, viewer.ID, author.ID)
		if err != nil {
			serverError(c, a.logger, "Failed to check follow state", err)
			return
		}
	}

	followers, err := a.follows.CountFollowers(ctx, author.ID)
	if err != nil {
		serverError(c, a.logger, "Failed to count followers", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"author":    author,
		"following": following,
		"followers": followers,
		"page":      page,
	})
}

// Detail handles GET /posts/:id/ with the post and its comments
func (a *PostsAPI) Detail(c *gin.Context) {
	ctx := c.Request.Context()

	post, err := a.lookupPost(c)
	if err != nil || post == nil {
		return
	}

	comments, err := a.comments.ListByPost(ctx, post.ID)
	if err != nil {
		serverError(c, a.logger, "Failed to load comments", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":     post,
		"comments": comments,
		"form":     gin.H{"text": ""},
	})
}

// CreateForm handles GET /create/ with an empty post form and the groups
// available for tagging
func (a *PostsAPI) CreateForm(c *gin.Context) {
	groups, err := a.groups.List(c.Request.Context())
	if err != nil {
		serverError(c, a.logger, "Failed to list groups", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"form":   gin.H{"text": "", "group": nil, "image": nil},
		"groups": groups,
	})
}

// Create handles POST /create/. A valid submission persists the post with
// the current user as author and redirects to their profile; an invalid one
// returns the field errors.
func (a *PostsAPI) Create(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetCurrentUser(c)

	form, ok := a.bindPostForm(c)
	if !ok {
		return
	}

	post := &models.Post{
		Text:     form.Text,
		AuthorID: user.ID,
		Image:    form.Image,
	}
	if form.GroupID != nil {
		post.GroupID = sql.NullInt64{Int64: *form.GroupID, Valid: true}
	}

	if err := a.posts.Create(ctx, post); err != nil {
		serverError(c, a.logger, "Failed to create post", err)
		return
	}

	a.logger.Info("Post created",
		zap.Int64("post_id", post.ID),
		zap.String("author", user.Username))

	c.Redirect(http.StatusFound, "/profile/"+user.Username+"/")
}

// EditForm handles GET /posts/:id/edit/. Only the author sees the form;
// anyone else is bounced to the detail view without an error.
func (a *PostsAPI) EditForm(c *gin.Context) {
	post, err := a.lookupPost(c)
	if err != nil || post == nil {
		return
	}

	user := middleware.GetCurrentUser(c)
	if user.ID != post.AuthorID {
		c.Redirect(http.StatusFound, postDetailPath(post.ID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post, "is_edit": true})
}

// Edit handles POST /posts/:id/edit/ updating text, group, and image in
// place. Non-authors are silently redirected to the detail view.
func (a *PostsAPI) Edit(c *gin.Context) {
	ctx := c.Request.Context()

	post, err := a.lookupPost(c)
	if err != nil || post == nil {
		return
	}

	user := middleware.GetCurrentUser(c)
	if user.ID != post.AuthorID {
		c.Redirect(http.StatusFound, postDetailPath(post.ID))
		return
	}

	form, ok := a.bindPostForm(c)
	if !ok {
		return
	}

	post.Text = form.Text
	if form.GroupID != nil {
		post.GroupID = sql.NullInt64{Int64: *form.GroupID, Valid: true}
	} else {
		post.GroupID = sql.NullInt64{}
	}
	if form.Image != "" {
		post.Image = form.Image
	}

	if err := a.posts.Update(ctx, post); err != nil {
		serverError(c, a.logger, "Failed to update post", err)
		return
	}

	c.Redirect(http.StatusFound, postDetailPath(post.ID))
}

// AddComment handles POST /posts/:id/comment/. The redirect to the detail
// view happens regardless of validity: an invalid comment is dropped
// silently, matching the submission flow the platform always had.
func (a *PostsAPI) AddComment(c *gin.Context) {
	ctx := c.Request.Context()

	post, err := a.lookupPost(c)
	if err != nil || post == nil {
		return
	}

	form := forms.NewCommentForm(c.PostForm("text"))
	if form.Valid() {
		user := middleware.GetCurrentUser(c)
		comment := &models.Comment{
			PostID:   post.ID,
			AuthorID: user.ID,
			Text:     form.Text,
		}
		if err := a.comments.Create(ctx, comment); err != nil {
			serverError(c, a.logger, "Failed to create comment", err)
			return
		}
	}

	c.Redirect(http.StatusFound, postDetailPath(post.ID))
}

// bindPostForm parses and validates a post submission, saving the uploaded
// image when present. On failure it has already written the error response.
func (a *PostsAPI) bindPostForm(c *gin.Context) (*forms.PostForm, bool) {
	imagePath := ""
	if header, err := c.FormFile("image"); err == nil && header != nil {
		path, err := a.media.Save(header)
		if err != nil {
			serverError(c, a.logger, "Failed to store image", err)
			return nil, false
		}
		imagePath = path
	}

	form := forms.NewPostForm(c.PostForm("text"), c.PostForm("group"), imagePath, a.cfg.MinTextLength)

	if form.GroupID != nil {
		group, err := a.groups.GetByID(c.Request.Context(), *form.GroupID)
		if err != nil {
			serverError(c, a.logger, "Failed to load group", err)
			return nil, false
		}
		if group == nil {
			form.AddError("group", "Select a valid group")
		}
	}

	if !form.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": form.Errors()})
		return nil, false
	}

	return form, true
}

// lookupPost fetches the post named by the :id route parameter. On a bad id
// or unknown post it writes the 404 and returns nil.
func (a *PostsAPI) lookupPost(c *gin.Context) (*models.Post, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		notFound(c)
		return nil, nil
	}

	post, err := a.posts.GetByID(c.Request.Context(), id)
	if err != nil {
		serverError(c, a.logger, "Failed to load post", err)
		return nil, err
	}
	if post == nil {
		notFound(c)
		return nil, nil
	}
	return post, nil
}

func postDetailPath(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10) + "/"
}
