package schemas

// ErrorDTO is a struct that represents an error response
// Error is the custom error, see CustomError
type ErrorDTO struct {
	Error CustomError `json:"error"`
}

// FieldErrorDTO is a struct that represents a single field-level validation failure
type FieldErrorDTO struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorDTO is a struct that represents a validation failure response
// Fields carries one entry per rejected input field so the form can be re-rendered with errors
type ValidationErrorDTO struct {
	Error  CustomError     `json:"error"`
	Fields []FieldErrorDTO `json:"fields"`
}

// FlashDTO is a struct that represents a flash notification shown on the next rendered page
// Category is one of success, info, warning, danger
type FlashDTO struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// PageDTO is a struct that represents a plain rendered page
// Title is the page title
// Flash is the pending flash notification, if any
type PageDTO struct {
	Title string    `json:"title"`
	Flash *FlashDTO `json:"flash,omitempty"`
}

// AboutDTO is a struct that represents the static about page
type AboutDTO struct {
	Text string `json:"text"`
}

// MetadataDTO is a struct that represents the service metadata response
type MetadataDTO struct {
	ApiVersion string `json:"apiVersion"`
	ApiName    string `json:"apiName"`
}

// AuthorDTO is a struct that represents the author of a post
// Username is the username of the author
// ProfilePictureURL is the profile picture path of the author
type AuthorDTO struct {
	Username          string `json:"username"`
	ProfilePictureURL string `json:"profilePictureURL"`
}

// PostDTO is a struct that represents a post response
// PostId is the ID of the post
// Title is the title of the post
// Content is the content of the post
// CreationDate is the timestamp of when the post was created
type PostDTO struct {
	PostId       string    `json:"postId"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	CreationDate string    `json:"creationDate"`
	Author       AuthorDTO `json:"author"`
}

// PostFormDTO is a struct that represents the pre-populated post form for an update
type PostFormDTO struct {
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Flash   *FlashDTO `json:"flash,omitempty"`
}

// AccountDTO is a struct that represents the pre-populated account page
// ProfilePictureURL is the path of the current profile picture
type AccountDTO struct {
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	ProfilePictureURL string    `json:"profilePictureURL"`
	Flash             *FlashDTO `json:"flash,omitempty"`
}

// Pagination is a struct that represents a page-based pagination
// Page is the 1-based page number
// PerPage is the fixed page size
// Records is the total records across all pages
type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"perPage"`
	Records int `json:"records"`
}

// PaginatedResponse is a struct that represents a paginated feed response
// Records is the subset of records for the requested page
// Pagination is the pagination of the response
type PaginatedResponse struct {
	Records    interface{} `json:"records"`
	Pagination Pagination  `json:"pagination"`
	Flash      *FlashDTO   `json:"flash,omitempty"`
}
