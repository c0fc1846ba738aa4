// Package schemas defines the data structures
package schemas

import (
	"time"

	"github.com/google/uuid"
)

// User represents the data model for a user account in the system.
type User struct {
	ID                *uuid.UUID `json:"id"`                  // Unique identifier for the user.
	Username          string     `json:"username"`            // Username of the user.
	Email             string     `json:"email"`               // Email address of the user.
	Password          string     `json:"password"`            // Password hash of the user, never the plaintext.
	CreatedAt         *time.Time `json:"created_at"`          // Timestamp when the user was created.
	ProfilePictureURL string     `json:"profile_picture_url"` // Filename of the profile picture, default.jpg until replaced.
}

// Post represents the data model for a blog post owned by a user.
type Post struct {
	ID        *uuid.UUID `json:"id"`         // Unique identifier for the post.
	AuthorID  *uuid.UUID `json:"author_id"`  // Identifier of the owning user.
	Title     string     `json:"title"`      // Title of the post.
	Content   string     `json:"content"`    // Content of the post.
	CreatedAt *time.Time `json:"created_at"` // Timestamp when the post was created, set once by the server.
}
