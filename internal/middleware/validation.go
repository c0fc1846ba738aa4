package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"blog-server/internal/schemas"
	"blog-server/internal/utils"
)

// ValidateAndSanitizeStruct binds the request body into a fresh instance produced by makeObj,
// strips markup from its string fields and validates it. On success the sanitized payload is
// stored in the request context; on failure the originating form is answered with field errors
// and no handler runs.
func ValidateAndSanitizeStruct(makeObj func() interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		obj := makeObj()
		if err := c.ShouldBind(obj); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ErrorDTO{Error: *schemas.BadRequest})
			return
		}

		v := utils.GetValidator()
		v.SanitizeData(obj)

		if err := v.Validate.Struct(obj); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ValidationErrorDTO{
				Error:  *schemas.BadRequest,
				Fields: fieldErrors(err),
			})
			return
		}

		c.Set(utils.SanitizedPayloadKey.String(), obj)
		c.Next()
	}
}

func fieldErrors(err error) []schemas.FieldErrorDTO {
	fields := make([]schemas.FieldErrorDTO, 0)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fields
	}

	for _, fieldErr := range validationErrors {
		fields = append(fields, schemas.FieldErrorDTO{
			Field:   fieldErr.Field(),
			Message: "failed on the '" + fieldErr.Tag() + "' rule",
		})
	}

	return fields
}
