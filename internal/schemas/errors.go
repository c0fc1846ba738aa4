package schemas

// CustomError is a struct that represents a categorized error response
// Code is the application error code
// Message is the user-facing message, it never carries internal error detail
type CustomError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var (
	BadRequest = &CustomError{
		Code:    "ERR-001",
		Message: "The request body is invalid. Please check the request body and try again.",
	}
	UsernameTaken = &CustomError{
		Code:    "ERR-002",
		Message: "The username is already taken. Please try another username.",
	}
	EmailTaken = &CustomError{
		Code:    "ERR-003",
		Message: "The email is already registered. Please try another email.",
	}
	UserNotFound = &CustomError{
		Code:    "ERR-004",
		Message: "The user was not found. Please check the username and try again.",
	}
	PostNotFound = &CustomError{
		Code:    "ERR-005",
		Message: "The post was not found. Please check the post ID and try again.",
	}
	DatabaseError = &CustomError{
		Code:    "ERR-006",
		Message: "A database error occurred. Please try again later.",
	}
	InternalServerError = &CustomError{
		Code:    "ERR-007",
		Message: "An internal error occurred. Please try again later.",
	}
	InvalidCredentials = &CustomError{
		Code:    "ERR-008",
		Message: "Login unsuccessful. Please check email and password.",
	}
	EditPostForbidden = &CustomError{
		Code:    "ERR-009",
		Message: "You are not the author of this post and cannot edit it.",
	}
	DeletePostForbidden = &CustomError{
		Code:    "ERR-010",
		Message: "You are not the author of this post and cannot delete it.",
	}
	InvalidResetToken = &CustomError{
		Code:    "ERR-011",
		Message: "The reset token is invalid or has expired. Please request a new one.",
	}
	EmailNotSent = &CustomError{
		Code:    "ERR-012",
		Message: "The email could not be sent. Please try again later.",
	}
	InvalidImage = &CustomError{
		Code:    "ERR-013",
		Message: "The uploaded file is not a valid image. Please upload a jpg or png file.",
	}
	Unauthorized = &CustomError{
		Code:    "ERR-014",
		Message: "The request is unauthorized. Please login to your account.",
	}
	PageNotFound = &CustomError{
		Code:    "ERR-015",
		Message: "The requested page does not exist.",
	}
)
