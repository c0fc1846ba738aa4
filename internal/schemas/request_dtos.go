// Package schemas defines the request structures for the various operations in the application.
package schemas

// RegistrationRequest is a struct that represents a registration request
// Username is required and must be less than 20 characters
// Email is required and must be a valid email
// Password is required and must be at least 8 characters
type RegistrationRequest struct {
	Username string `form:"username" json:"username" validate:"required,max=20,username_validation"`
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required,min=8,password_validation"`
}

// LoginRequest is a struct that represents a login request
// Email is required and must be a valid email
// Password is required
// Remember requests a session that survives browser restarts
type LoginRequest struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
	Remember bool   `form:"remember" json:"remember"`
}

// AccountUpdateRequest is a struct that represents an account update request
// The optional replacement profile picture travels alongside as a multipart file
type AccountUpdateRequest struct {
	Username string `form:"username" json:"username" validate:"required,max=20,username_validation"`
	Email    string `form:"email" json:"email" validate:"required,email"`
}

// PostRequest is a struct that represents a create or update post request
// Title is required and must be less than 100 characters
// Content is required
type PostRequest struct {
	Title   string `form:"title" json:"title" validate:"required,max=100"`
	Content string `form:"content" json:"content" validate:"required"`
}

// PasswordResetRequest is a struct that represents a request for a reset email
type PasswordResetRequest struct {
	Email string `form:"email" json:"email" validate:"required,email"`
}

// SetPasswordRequest is a struct that represents the final step of a password reset
// ConfirmPassword must match Password
type SetPasswordRequest struct {
	Password        string `form:"password" json:"password" validate:"required,min=8,password_validation"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword" validate:"required,eqfield=Password"`
}
