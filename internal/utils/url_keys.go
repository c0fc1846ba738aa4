package utils

const (
	// UsernameKey is the key for username used in routing parameters.
	UsernameKey = "username"

	// PostIdParamKey is the key for post ID used in routing parameters.
	PostIdParamKey = "postId"

	// TokenParamKey is the key for the reset token used in routing parameters.
	TokenParamKey = "token"

	// PageParamKey is the key for the 1-based page used in pagination query parameters.
	PageParamKey = "page"

	// NextParamKey is the key for the post-login redirect target used in query parameters.
	NextParamKey = "next"

	// PictureFormKey is the key for the profile picture used in multipart form uploads.
	PictureFormKey = "picture"
)
