package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"blog-server/internal/managers"
	"blog-server/internal/schemas"
	"blog-server/internal/utils"
)

// defaultProfilePicture is the sentinel image reference every new account starts with.
const defaultProfilePicture = "default.jpg"

// UserHdl defines the interface for handling user-related HTTP requests.
type UserHdl interface {
	GetRegisterForm(c *gin.Context)
	RegisterUser(c *gin.Context)
	GetLoginForm(c *gin.Context)
	LoginUser(c *gin.Context)
	LogoutUser(c *gin.Context)
	GetAccount(c *gin.Context)
	UpdateAccount(c *gin.Context)
	RetrieveUserPosts(c *gin.Context)
	GetResetRequestForm(c *gin.Context)
	RequestPasswordReset(c *gin.Context)
	GetResetForm(c *gin.Context)
	ResetPassword(c *gin.Context)
}

// UserHandler provides methods to handle user-related HTTP requests.
type UserHandler struct {
	DatabaseManager managers.DatabaseMgr
	JWTManager      managers.JWTMgr
	SessionManager  managers.SessionMgr
	MailManager     managers.MailMgr
	ImageManager    managers.ImageMgr
	Validator       *utils.Validator
}

// NewUserHandler returns a new UserHandler with the provided managers and validator.
func NewUserHandler(databaseManager *managers.DatabaseMgr, jwtManager *managers.JWTMgr,
	sessionManager *managers.SessionMgr, mailManager *managers.MailMgr, imageManager *managers.ImageMgr) UserHdl {
	return &UserHandler{
		DatabaseManager: *databaseManager,
		JWTManager:      *jwtManager,
		SessionManager:  *sessionManager,
		MailManager:     *mailManager,
		ImageManager:    *imageManager,
		Validator:       utils.GetValidator(),
	}
}

// GetRegisterForm renders the registration form.
func (handler *UserHandler) GetRegisterForm(ctx *gin.Context) {
	utils.WriteAndLogResponse(ctx, &schemas.PageDTO{Title: "Register", Flash: utils.PopFlash(ctx)}, http.StatusOK)
}

// RegisterUser creates a new account after checking username and email uniqueness.
// On success the caller is redirected to the login page; a uniqueness violation leaves no write behind.
func (handler *UserHandler) RegisterUser(ctx *gin.Context) {
	// Begin a new transaction
	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(ctx, tx, err) }()

	// Fetch the sanitized payload from the context
	registrationRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.RegistrationRequest)

	// Check if the username or email is taken
	if err = checkUsernameEmailTaken(ctx, tx, registrationRequest.Username, registrationRequest.Email); err != nil {
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registrationRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	// Insert the user into the database
	userId := uuid.New()
	createdAt := time.Now()
	user := &schemas.User{
		ID:                &userId,
		Username:          registrationRequest.Username,
		Email:             registrationRequest.Email,
		Password:          string(hashedPassword),
		CreatedAt:         &createdAt,
		ProfilePictureURL: defaultProfilePicture,
	}

	queryString := "INSERT INTO blog_schema.users (user_id, username, email, password, created_at, profile_picture_url) " +
		"VALUES ($1, $2, $3, $4, $5, $6)"
	if _, err = tx.Exec(ctx, queryString, user.ID, user.Username, user.Email,
		user.Password, user.CreatedAt, user.ProfilePictureURL); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Commit the transaction
	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.RedirectWithFlash(ctx, "/login", "success", "Your account has been created! You are now able to log in.")
}

// GetLoginForm renders the login form.
func (handler *UserHandler) GetLoginForm(ctx *gin.Context) {
	utils.WriteAndLogResponse(ctx, &schemas.PageDTO{Title: "Login", Flash: utils.PopFlash(ctx)}, http.StatusOK)
}

// LoginUser verifies the submitted credentials and establishes a session honoring the remember flag.
// An unknown email and a wrong password produce the same generic failure so accounts cannot be enumerated.
func (handler *UserHandler) LoginUser(ctx *gin.Context) {
	// Fetch the sanitized payload from the context
	loginRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.LoginRequest)

	// Look up the user by email
	queryString := "SELECT user_id, username, password FROM blog_schema.users WHERE email = $1"
	row := handler.DatabaseManager.GetPool().QueryRow(ctx, queryString, loginRequest.Email)

	var userId uuid.UUID
	var username, password string
	if err := row.Scan(&userId, &username, &password); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			handler.loginFailed(ctx, errors.New("email does not exist"))
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Check if the password is correct
	if err := bcrypt.CompareHashAndPassword([]byte(password), []byte(loginRequest.Password)); err != nil {
		handler.loginFailed(ctx, err)
		return
	}

	// Establish the session
	if err := handler.SessionManager.Establish(ctx, userId.String(), username, loginRequest.Remember); err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	ctx.Redirect(http.StatusSeeOther, safeNextTarget(ctx))
}

// loginFailed reports the generic authentication failure, deliberately not distinguishing
// an unknown email from a wrong password.
func (handler *UserHandler) loginFailed(ctx *gin.Context, err error) {
	utils.SetFlash(ctx, "danger", schemas.InvalidCredentials.Message)
	utils.WriteAndLogError(ctx, schemas.InvalidCredentials, http.StatusUnauthorized, err)
}

// safeNextTarget returns the originally requested protected page if one triggered the login,
// restricted to site-relative paths, else the home feed.
func safeNextTarget(ctx *gin.Context) string {
	next := ctx.Query(utils.NextParamKey)
	if next == "" {
		next = ctx.PostForm(utils.NextParamKey)
	}

	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}

	return next
}

// LogoutUser unconditionally tears down the current session and redirects to the login page.
func (handler *UserHandler) LogoutUser(ctx *gin.Context) {
	handler.SessionManager.Destroy(ctx)
	ctx.Redirect(http.StatusSeeOther, "/login")
}

// GetAccount pre-populates the account form with the current identity's username and email.
func (handler *UserHandler) GetAccount(ctx *gin.Context) {
	claims := ctx.Value(utils.ClaimsKey.String()).(jwt.MapClaims)
	userId := claims["sub"].(string)

	queryString := "SELECT username, email, profile_picture_url FROM blog_schema.users WHERE user_id = $1"
	row := handler.DatabaseManager.GetPool().QueryRow(ctx, queryString, userId)

	account := &schemas.AccountDTO{}
	if err := row.Scan(&account.Username, &account.Email, &account.ProfilePictureURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	account.Flash = utils.PopFlash(ctx)
	utils.WriteAndLogResponse(ctx, account, http.StatusOK)
}

// UpdateAccount updates the current identity's username and email, and replaces the profile
// picture when one was supplied. The picture write is not transactional with the database
// commit; a crash in between leaves an orphaned file behind.
func (handler *UserHandler) UpdateAccount(ctx *gin.Context) {
	// Begin a new transaction
	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(ctx, tx, err) }()

	// Fetch the sanitized payload and identity from the context
	updateRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.AccountUpdateRequest)
	claims := ctx.Value(utils.ClaimsKey.String()).(jwt.MapClaims)
	userId := claims["sub"].(string)

	// Check if the username or email is taken by another user
	if err = checkUsernameEmailTakenByOther(ctx, tx, updateRequest.Username, updateRequest.Email, userId); err != nil {
		return
	}

	// Store the replacement profile picture if one was supplied
	pictureName := ""
	if fileHeader, fileErr := ctx.FormFile(utils.PictureFormKey); fileErr == nil {
		file, openErr := fileHeader.Open()
		if openErr != nil {
			err = openErr
			utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
			return
		}
		defer file.Close()

		pictureName, err = handler.ImageManager.SaveProfilePicture(file, fileHeader.Filename)
		if err != nil {
			utils.WriteAndLogError(ctx, schemas.InvalidImage, http.StatusBadRequest, err)
			return
		}
	}

	// Update the user, including the image reference when a new picture was stored
	if pictureName != "" {
		queryString := "UPDATE blog_schema.users SET username = $1, email = $2, profile_picture_url = $3 WHERE user_id = $4"
		_, err = tx.Exec(ctx, queryString, updateRequest.Username, updateRequest.Email, pictureName, userId)
	} else {
		queryString := "UPDATE blog_schema.users SET username = $1, email = $2 WHERE user_id = $3"
		_, err = tx.Exec(ctx, queryString, updateRequest.Username, updateRequest.Email, userId)
	}
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Commit the transaction
	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.RedirectWithFlash(ctx, "/account", "success", "Your account has been updated.")
}

// RetrieveUserPosts returns one page of the posts of the given user, newest first.
// An unknown username fails with not-found before pagination is attempted.
func (handler *UserHandler) RetrieveUserPosts(ctx *gin.Context) {
	username := ctx.Param(utils.UsernameKey)
	pool := handler.DatabaseManager.GetPool()

	// Resolve the username first
	queryString := "SELECT user_id, profile_picture_url FROM blog_schema.users WHERE username = $1"
	row := pool.QueryRow(ctx, queryString, username)

	var userId uuid.UUID
	var profilePicture string
	if err := row.Scan(&userId, &profilePicture); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	page := utils.ParsePageParam(ctx)

	// Get the total number of posts for the user
	var count int
	queryString = "SELECT COUNT(*) FROM blog_schema.posts WHERE author_id = $1"
	if err := pool.QueryRow(ctx, queryString, userId).Scan(&count); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Get the requested page, an out-of-range page yields an empty record set
	queryString = "SELECT post_id, title, content, created_at FROM blog_schema.posts WHERE author_id = $1 " +
		"ORDER BY created_at DESC LIMIT $2 OFFSET $3"
	rows, err := pool.Query(ctx, queryString, userId, utils.PostsPerPage, utils.PageOffset(page))
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	author := schemas.AuthorDTO{Username: username, ProfilePictureURL: profilePicture}
	posts := make([]*schemas.PostDTO, 0)
	for rows.Next() {
		post := &schemas.PostDTO{Author: author}
		var createdAt time.Time
		if err := rows.Scan(&post.PostId, &post.Title, &post.Content, &createdAt); err != nil {
			utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		post.CreationDate = createdAt.Format(time.RFC3339)
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.PaginatedResponse{
		Records:    posts,
		Pagination: schemas.Pagination{Page: page, PerPage: utils.PostsPerPage, Records: count},
		Flash:      utils.PopFlash(ctx),
	}, http.StatusOK)
}

// GetResetRequestForm renders the reset-request form.
func (handler *UserHandler) GetResetRequestForm(ctx *gin.Context) {
	utils.WriteAndLogResponse(ctx, &schemas.PageDTO{Title: "Reset Password", Flash: utils.PopFlash(ctx)}, http.StatusOK)
}

// RequestPasswordReset issues a signed, time-limited token for the account matching the
// submitted email and dispatches it out-of-band. The response is the same whether or not
// the email matched an account, so account existence does not leak.
func (handler *UserHandler) RequestPasswordReset(ctx *gin.Context) {
	resetRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.PasswordResetRequest)

	queryString := "SELECT user_id, username FROM blog_schema.users WHERE email = $1"
	row := handler.DatabaseManager.GetPool().QueryRow(ctx, queryString, resetRequest.Email)

	var userId uuid.UUID
	var username string
	err := row.Scan(&userId, &username)
	switch {
	case err == nil:
		token, tokenErr := handler.JWTManager.GenerateResetToken(userId.String())
		if tokenErr != nil {
			utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, tokenErr)
			return
		}

		if mailErr := handler.MailManager.SendPasswordResetMail(resetRequest.Email, username, token); mailErr != nil {
			utils.WriteAndLogError(ctx, schemas.EmailNotSent, http.StatusInternalServerError, mailErr)
			return
		}
	case errors.Is(err, pgx.ErrNoRows):
		// No matching account, fall through to the generic notification
		utils.LogMessageWithFields(ctx, "info", "Password reset requested for unknown email")
	default:
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.RedirectWithFlash(ctx, "/login", "info", "An email has been sent with instructions to reset your password.")
}

// GetResetForm verifies the token from the path and renders the new-password form.
// An invalid or expired token sends the caller back to the reset-request step.
func (handler *UserHandler) GetResetForm(ctx *gin.Context) {
	tokenString := ctx.Param(utils.TokenParamKey)

	if _, err := handler.JWTManager.ValidateResetToken(tokenString); err != nil {
		handler.rejectResetToken(ctx, err)
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.PageDTO{Title: "Reset Password", Flash: utils.PopFlash(ctx)}, http.StatusOK)
}

// ResetPassword consumes a reset token and overwrites the encoded user's password hash.
// The token must verify and its encoded identity must still resolve to an existing user.
func (handler *UserHandler) ResetPassword(ctx *gin.Context) {
	tokenString := ctx.Param(utils.TokenParamKey)

	userId, err := handler.JWTManager.ValidateResetToken(tokenString)
	if err != nil {
		handler.rejectResetToken(ctx, err)
		return
	}

	// Begin a new transaction
	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	defer func() { utils.RollbackTransaction(ctx, tx, err) }()

	// The encoded identity must resolve to an existing user
	queryString := "SELECT username FROM blog_schema.users WHERE user_id = $1"
	row := tx.QueryRow(ctx, queryString, userId)

	var username string
	if err = row.Scan(&username); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			handler.rejectResetToken(ctx, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	setPasswordRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.SetPasswordRequest)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(setPasswordRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	queryString = "UPDATE blog_schema.users SET password = $1 WHERE user_id = $2"
	if _, err = tx.Exec(ctx, queryString, hashedPassword, userId); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Commit the transaction
	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.RedirectWithFlash(ctx, "/login", "info", "Your password has been updated!")
}

// rejectResetToken reports an unusable reset token and sends the caller back to the request step.
// A token whose subject no longer resolves to a user is rejected the same way as a tampered one.
func (handler *UserHandler) rejectResetToken(ctx *gin.Context, err error) {
	utils.LogMessageWithFieldsAndError(ctx, "warn", "Rejecting reset token: "+schemas.InvalidResetToken.Code, err)
	utils.RedirectWithFlash(ctx, "/reset_password", "warning", schemas.InvalidResetToken.Message)
}

func checkUsernameEmailTaken(ctx *gin.Context, tx pgx.Tx, username, email string) error {
	queryString := "SELECT username, email FROM blog_schema.users WHERE username = $1 OR email = $2"
	return checkTakenRows(ctx, tx, queryString, username, email)
}

func checkUsernameEmailTakenByOther(ctx *gin.Context, tx pgx.Tx, username, email, userId string) error {
	queryString := "SELECT username, email FROM blog_schema.users WHERE (username = $1 OR email = $2) AND user_id != $3"
	return checkTakenRows(ctx, tx, queryString, username, email, userId)
}

func checkTakenRows(ctx *gin.Context, tx pgx.Tx, queryString string, args ...interface{}) error {
	username := args[0].(string)

	rows, err := tx.Query(ctx, queryString, args...)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}
	defer rows.Close()

	if rows.Next() {
		var foundUsername string
		var foundEmail string

		if err := rows.Scan(&foundUsername, &foundEmail); err != nil {
			utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
			return err
		}

		customErr := schemas.EmailTaken
		if foundUsername == username {
			customErr = schemas.UsernameTaken
		}

		err = errors.New("username or email taken")
		utils.WriteAndLogError(ctx, customErr, http.StatusConflict, err)
		return err
	}

	return nil
}
