package managers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"blog-server/internal/schemas"
	"blog-server/internal/utils"
)

// sessionCookieName is the cookie carrying the signed session token.
const sessionCookieName = "session"

// SessionMgr establishes and tears down the authenticated identity bound to a request sequence.
// Handlers never touch the cookie themselves; they read the verified claims from the request context.
type SessionMgr interface {
	Establish(c *gin.Context, userId, username string, remember bool) error
	Destroy(c *gin.Context)
	RequireSession() gin.HandlerFunc
	RedirectIfAuthenticated() gin.HandlerFunc
}

// SessionManager implements SessionMgr on top of the JWT manager's session tokens.
type SessionManager struct {
	JWTManager JWTMgr
}

// NewSessionManager creates a new SessionManager using the given JWT manager for signing.
func NewSessionManager(jwtManager JWTMgr) SessionMgr {
	return &SessionManager{JWTManager: jwtManager}
}

// Establish signs a session token for the given identity and binds it to the browser.
// A remembered session gets a persistent cookie, otherwise the cookie dies with the browser.
func (sm *SessionManager) Establish(c *gin.Context, userId, username string, remember bool) error {
	token, err := sm.JWTManager.GenerateSessionToken(userId, username, remember)
	if err != nil {
		return err
	}

	maxAge := 0
	if remember {
		maxAge = 30 * 24 * 60 * 60
	}

	c.SetCookie(sessionCookieName, token, maxAge, "/", "", false, true)
	return nil
}

// Destroy unconditionally tears down the current session.
func (sm *SessionManager) Destroy(c *gin.Context) {
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
}

// RequireSession gates routes that need an authenticated identity.
// Unauthenticated callers are redirected to the login page with the originally
// requested path preserved in the next parameter.
func (sm *SessionManager) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := sm.currentClaims(c)
		if !ok {
			utils.LogMessageWithFields(c, "info", "Rejecting request: "+schemas.Unauthorized.Code+" / "+schemas.Unauthorized.Message)
			utils.SetFlash(c, "info", "Please log in to access this page.")
			c.Redirect(http.StatusSeeOther, "/login?"+utils.NextParamKey+"="+url.QueryEscape(c.Request.URL.Path))
			c.Abort()
			return
		}

		c.Set(utils.ClaimsKey.String(), claims)
		c.Next()
	}
}

// RedirectIfAuthenticated gates routes that only make sense for anonymous callers,
// sending authenticated users back to the home feed without action.
func (sm *SessionManager) RedirectIfAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := sm.currentClaims(c); ok {
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}

		c.Next()
	}
}

func (sm *SessionManager) currentClaims(c *gin.Context) (interface{}, bool) {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie == "" {
		return nil, false
	}

	claims, err := sm.JWTManager.ValidateSessionToken(cookie)
	if err != nil {
		return nil, false
	}

	return claims, true
}
