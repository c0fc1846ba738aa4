package utils

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-server/internal/schemas"
)

// flashCookieName is the cookie carrying the pending flash notification until the next rendered page.
const flashCookieName = "flash"

// WriteAndLogResponse encodes the response object to JSON and writes it to the HTTP response
// with the provided status code.
func WriteAndLogResponse(ctx *gin.Context, response interface{}, statusCode int) {
	LogMessageWithFields(ctx, "info", "Returning response")
	ctx.JSON(statusCode, response)
}

// WriteAndLogError logs the provided error and sends an error response with the specified status code
// and the categorized error. The internal error never reaches the caller.
func WriteAndLogError(c *gin.Context, customErr *schemas.CustomError, statusCode int, err error) {
	LogMessageWithFields(c, "error", "Error occurred: "+err.Error())
	LogMessageWithFields(c, "error", "Returning "+customErr.Code+" / "+customErr.Message)
	errorDto := &schemas.ErrorDTO{
		Error: *customErr,
	}
	c.JSON(statusCode, errorDto)
}

// SetFlash stores a categorized flash notification in a short-lived cookie.
// It survives exactly until the next page pops it.
func SetFlash(c *gin.Context, category, message string) {
	flash := &schemas.FlashDTO{
		Category: category,
		Message:  message,
	}

	encoded, err := json.Marshal(flash)
	if err != nil {
		LogMessageWithFieldsAndError(c, "error", "Error encoding flash notification", err)
		return
	}

	c.SetCookie(flashCookieName, base64.URLEncoding.EncodeToString(encoded), 60, "/", "", false, true)
}

// PopFlash returns the pending flash notification and clears it, or nil if none is pending.
func PopFlash(c *gin.Context) *schemas.FlashDTO {
	cookie, err := c.Cookie(flashCookieName)
	if err != nil {
		return nil
	}

	c.SetCookie(flashCookieName, "", -1, "/", "", false, true)

	decoded, err := base64.URLEncoding.DecodeString(cookie)
	if err != nil {
		return nil
	}

	flash := &schemas.FlashDTO{}
	if err := json.Unmarshal(decoded, flash); err != nil {
		return nil
	}

	return flash
}

// RedirectWithFlash sets a flash notification and redirects the caller to the given location.
func RedirectWithFlash(c *gin.Context, location, category, message string) {
	SetFlash(c, category, message)
	LogMessageWithFields(c, "info", "Redirecting to "+location)
	c.Redirect(http.StatusSeeOther, location)
}
