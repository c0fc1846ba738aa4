package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"

	"github.com/google/uuid"

	"blog-server/internal/managers"
	"blog-server/internal/schemas"
	"blog-server/internal/utils"
)

// PostHdl defines the interface for handling post-related HTTP requests.
type PostHdl interface {
	HandleGetFeedRequest(c *gin.Context)
	GetPostForm(c *gin.Context)
	CreatePost(c *gin.Context)
	GetPost(c *gin.Context)
	GetPostForUpdate(c *gin.Context)
	UpdatePost(c *gin.Context)
	DeletePost(c *gin.Context)
}

// PostHandler provides methods to handle post-related HTTP requests.
type PostHandler struct {
	DatabaseManager managers.DatabaseMgr
}

// NewPostHandler returns a new PostHandler with the provided database manager.
func NewPostHandler(databaseManager *managers.DatabaseMgr) PostHdl {
	return &PostHandler{DatabaseManager: *databaseManager}
}

// HandleGetFeedRequest returns one page of the global feed, newest first.
// A page beyond the last one yields an empty record set with the real total.
func (handler *PostHandler) HandleGetFeedRequest(ctx *gin.Context) {
	pool := handler.DatabaseManager.GetPool()
	page := utils.ParsePageParam(ctx)

	// Get the total number of posts
	var count int
	queryString := "SELECT COUNT(*) FROM blog_schema.posts"
	if err := pool.QueryRow(ctx, queryString).Scan(&count); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Get the requested page joined with the author details
	queryString = "SELECT p.post_id, p.title, p.content, p.created_at, u.username, u.profile_picture_url " +
		"FROM blog_schema.posts p JOIN blog_schema.users u ON p.author_id = u.user_id " +
		"ORDER BY p.created_at DESC LIMIT $1 OFFSET $2"
	rows, err := pool.Query(ctx, queryString, utils.PostsPerPage, utils.PageOffset(page))
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	posts, err := scanPostRows(rows)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.PaginatedResponse{
		Records:    posts,
		Pagination: schemas.Pagination{Page: page, PerPage: utils.PostsPerPage, Records: count},
		Flash:      utils.PopFlash(ctx),
	}, http.StatusOK)
}

// GetPostForm renders the empty form for composing a new post.
func (handler *PostHandler) GetPostForm(ctx *gin.Context) {
	utils.WriteAndLogResponse(ctx, &schemas.PageDTO{Title: "New Post", Flash: utils.PopFlash(ctx)}, http.StatusOK)
}

// CreatePost stores a new post authored by the current identity and redirects to the feed.
func (handler *PostHandler) CreatePost(ctx *gin.Context) {
	// Begin a new transaction
	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(ctx, tx, err) }()

	// Fetch the sanitized payload and identity from the context
	postRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.PostRequest)
	claims := ctx.Value(utils.ClaimsKey.String()).(jwt.MapClaims)

	authorId, err := uuid.Parse(claims["sub"].(string))
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	postId := uuid.New()
	createdAt := time.Now()
	post := &schemas.Post{
		ID:        &postId,
		AuthorID:  &authorId,
		Title:     postRequest.Title,
		Content:   postRequest.Content,
		CreatedAt: &createdAt,
	}

	queryString := "INSERT INTO blog_schema.posts (post_id, author_id, title, content, created_at) " +
		"VALUES ($1, $2, $3, $4, $5)"
	if _, err = tx.Exec(ctx, queryString, post.ID, post.AuthorID, post.Title, post.Content, post.CreatedAt); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Commit the transaction
	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.RedirectWithFlash(ctx, "/", "success", "Post created successfully.")
}

// GetPost returns a single post with its author details. Both a malformed and an
// unknown post ID read as not found.
func (handler *PostHandler) GetPost(ctx *gin.Context) {
	postId, err := uuid.Parse(ctx.Param(utils.PostIdParamKey))
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.PostNotFound, http.StatusNotFound, err)
		return
	}

	queryString := "SELECT p.post_id, p.title, p.content, p.created_at, u.username, u.profile_picture_url " +
		"FROM blog_schema.posts p JOIN blog_schema.users u ON p.author_id = u.user_id WHERE p.post_id = $1"
	row := handler.DatabaseManager.GetPool().QueryRow(ctx, queryString, postId)

	post := &schemas.PostDTO{}
	var createdAt time.Time
	if err := row.Scan(&post.PostId, &post.Title, &post.Content, &createdAt,
		&post.Author.Username, &post.Author.ProfilePictureURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.PostNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	post.CreationDate = createdAt.Format(time.RFC3339)

	utils.WriteAndLogResponse(ctx, post, http.StatusOK)
}

// GetPostForUpdate pre-populates the edit form with the stored post.
// Only the author may fetch it; existence is checked before ownership.
func (handler *PostHandler) GetPostForUpdate(ctx *gin.Context) {
	postId, err := uuid.Parse(ctx.Param(utils.PostIdParamKey))
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.PostNotFound, http.StatusNotFound, err)
		return
	}

	claims := ctx.Value(utils.ClaimsKey.String()).(jwt.MapClaims)
	userId := claims["sub"].(string)

	queryString := "SELECT title, content, author_id FROM blog_schema.posts WHERE post_id = $1"
	row := handler.DatabaseManager.GetPool().QueryRow(ctx, queryString, postId)

	form := &schemas.PostFormDTO{}
	var authorId uuid.UUID
	if err := row.Scan(&form.Title, &form.Content, &authorId); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.PostNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if authorId.String() != userId {
		utils.WriteAndLogError(ctx, schemas.EditPostForbidden, http.StatusForbidden,
			errors.New("user is not the author of the post"))
		return
	}

	form.Flash = utils.PopFlash(ctx)
	utils.WriteAndLogResponse(ctx, form, http.StatusOK)
}

// UpdatePost overwrites the title and content of a post owned by the current identity.
func (handler *PostHandler) UpdatePost(ctx *gin.Context) {
	postId, err := uuid.Parse(ctx.Param(utils.PostIdParamKey))
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.PostNotFound, http.StatusNotFound, err)
		return
	}

	// Begin a new transaction
	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	defer func() { utils.RollbackTransaction(ctx, tx, err) }()

	if err = checkPostOwnership(ctx, tx, postId, schemas.EditPostForbidden); err != nil {
		return
	}

	postRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.PostRequest)

	queryString := "UPDATE blog_schema.posts SET title = $1, content = $2 WHERE post_id = $3"
	if _, err = tx.Exec(ctx, queryString, postRequest.Title, postRequest.Content, postId); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Commit the transaction
	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.RedirectWithFlash(ctx, "/", "info", "Your post has been updated.")
}

// DeletePost removes a post owned by the current identity.
func (handler *PostHandler) DeletePost(ctx *gin.Context) {
	postId, err := uuid.Parse(ctx.Param(utils.PostIdParamKey))
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.PostNotFound, http.StatusNotFound, err)
		return
	}

	// Begin a new transaction
	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	defer func() { utils.RollbackTransaction(ctx, tx, err) }()

	if err = checkPostOwnership(ctx, tx, postId, schemas.DeletePostForbidden); err != nil {
		return
	}

	queryString := "DELETE FROM blog_schema.posts WHERE post_id = $1"
	if _, err = tx.Exec(ctx, queryString, postId); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Commit the transaction
	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.RedirectWithFlash(ctx, "/", "info", "Your post has been deleted.")
}

// checkPostOwnership verifies that the post exists and is authored by the current identity.
// On failure the response is already written and the returned error aborts the caller.
func checkPostOwnership(ctx *gin.Context, tx pgx.Tx, postId uuid.UUID, forbiddenErr *schemas.CustomError) error {
	claims := ctx.Value(utils.ClaimsKey.String()).(jwt.MapClaims)
	userId := claims["sub"].(string)

	queryString := "SELECT author_id FROM blog_schema.posts WHERE post_id = $1"
	row := tx.QueryRow(ctx, queryString, postId)

	var authorId uuid.UUID
	if err := row.Scan(&authorId); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.PostNotFound, http.StatusNotFound, err)
			return err
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}

	if authorId.String() != userId {
		err := errors.New("user is not the author of the post")
		utils.WriteAndLogError(ctx, forbiddenErr, http.StatusForbidden, err)
		return err
	}

	return nil
}

// scanPostRows collects joined post rows into response DTOs.
func scanPostRows(rows pgx.Rows) ([]*schemas.PostDTO, error) {
	posts := make([]*schemas.PostDTO, 0)

	for rows.Next() {
		post := &schemas.PostDTO{}
		var createdAt time.Time
		if err := rows.Scan(&post.PostId, &post.Title, &post.Content, &createdAt,
			&post.Author.Username, &post.Author.ProfilePictureURL); err != nil {
			return nil, err
		}
		post.CreationDate = createdAt.Format(time.RFC3339)
		posts = append(posts, post)
	}

	return posts, rows.Err()
}
