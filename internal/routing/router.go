// Package routing contains the definition of all HTTP routes of the application.
package routing

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"blog-server/internal/handlers"
	"blog-server/internal/managers"
	"blog-server/internal/middleware"
	"blog-server/internal/schemas"
	"blog-server/internal/utils"
)

const (
	apiVersion = "1.0.0"
	apiName    = "Blog Server API"
)

// InitRouter initializes the router with the provided managers and registers every route.
func InitRouter(databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr,
	sessionMgr managers.SessionMgr, imageMgr managers.ImageMgr) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	setupCommonMiddleware(router)

	userHdl := handlers.NewUserHandler(&databaseMgr, &jwtMgr, &sessionMgr, &mailMgr, &imageMgr)
	postHdl := handlers.NewPostHandler(&databaseMgr)

	// Service plumbing
	router.GET("/health", healthRoute(databaseMgr))
	router.GET("/metadata", metadataRoute())
	router.GET("/about", aboutRoute())
	router.NoRoute(notFoundRoute())

	// Public feed and post reads
	router.GET("/", postHdl.HandleGetFeedRequest)
	router.GET("/home", postHdl.HandleGetFeedRequest)
	router.GET("/post/:"+utils.PostIdParamKey, postHdl.GetPost)
	router.GET("/user/:"+utils.UsernameKey, userHdl.RetrieveUserPosts)

	// Routes reserved for anonymous callers
	anonRouter := router.Group("", sessionMgr.RedirectIfAuthenticated())
	anonRouter.GET("/register", userHdl.GetRegisterForm)
	anonRouter.POST("/register", middleware.ValidateAndSanitizeStruct(func() interface{} {
		return &schemas.RegistrationRequest{}
	}), userHdl.RegisterUser)
	anonRouter.GET("/login", userHdl.GetLoginForm)
	anonRouter.POST("/login", middleware.ValidateAndSanitizeStruct(func() interface{} {
		return &schemas.LoginRequest{}
	}), userHdl.LoginUser)
	anonRouter.GET("/reset_password", userHdl.GetResetRequestForm)
	anonRouter.POST("/reset_password", middleware.ValidateAndSanitizeStruct(func() interface{} {
		return &schemas.PasswordResetRequest{}
	}), userHdl.RequestPasswordReset)
	anonRouter.GET("/reset_password/:"+utils.TokenParamKey, userHdl.GetResetForm)
	anonRouter.POST("/reset_password/:"+utils.TokenParamKey, middleware.ValidateAndSanitizeStruct(func() interface{} {
		return &schemas.SetPasswordRequest{}
	}), userHdl.ResetPassword)

	router.GET("/logout", userHdl.LogoutUser)

	// Routes requiring an authenticated session
	authRouter := router.Group("", sessionMgr.RequireSession())
	authRouter.GET("/account", userHdl.GetAccount)
	authRouter.POST("/account", middleware.ValidateAndSanitizeStruct(func() interface{} {
		return &schemas.AccountUpdateRequest{}
	}), userHdl.UpdateAccount)
	authRouter.GET("/post/new", postHdl.GetPostForm)
	authRouter.POST("/post/new", middleware.ValidateAndSanitizeStruct(func() interface{} {
		return &schemas.PostRequest{}
	}), postHdl.CreatePost)
	authRouter.GET("/post/:"+utils.PostIdParamKey+"/update", postHdl.GetPostForUpdate)
	authRouter.POST("/post/:"+utils.PostIdParamKey+"/update", middleware.ValidateAndSanitizeStruct(func() interface{} {
		return &schemas.PostRequest{}
	}), postHdl.UpdatePost)
	authRouter.GET("/post/delete/:"+utils.PostIdParamKey, postHdl.DeletePost)

	return router
}

func setupCommonMiddleware(router *gin.Engine) {
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/health"))
	router.Use(gin.Recovery())
	router.Use(middleware.InjectTrace())
	router.Use(cors.Default())
	router.Use(middleware.SanitizePath())
	router.Use(middleware.LogRequest())
}

// healthRoute reports whether the database is reachable.
func healthRoute(databaseMgr managers.DatabaseMgr) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := databaseMgr.GetPool().Ping(c); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "unhealthy"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

func metadataRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.WriteAndLogResponse(c, &schemas.MetadataDTO{
			ApiVersion: apiVersion,
			ApiName:    apiName,
		}, http.StatusOK)
	}
}

func aboutRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.WriteAndLogResponse(c, &schemas.AboutDTO{
			Text: "A small blogging platform where registered authors publish, edit and delete posts.",
		}, http.StatusOK)
	}
}

func notFoundRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, &schemas.ErrorDTO{Error: *schemas.PageNotFound})
	}
}
