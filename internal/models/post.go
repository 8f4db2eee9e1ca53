package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a blog post as stored in the MongoDB posts collection.
// Author and CreatedDate are set at creation and never updated.
type Post struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Body        string             `json:"body" bson:"body"`
	Author      primitive.ObjectID `json:"author" bson:"author"`
	CreatedDate time.Time          `json:"createdDate" bson:"createdDate"`
}

// AuthorInfo is the minimal author projection attached to post views.
type AuthorInfo struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// PostView is a post joined with its author and an ownership flag computed
// for the requesting viewer. Built per request, never persisted.
type PostView struct {
	ID             primitive.ObjectID `json:"id"`
	Title          string             `json:"title"`
	Body           string             `json:"body"`
	CreatedDate    time.Time          `json:"createdDate"`
	Author         AuthorInfo         `json:"author"`
	IsVisitorOwner bool               `json:"isVisitorOwner"`
}

// CreatePostRequest defines the request body for creating a new post.
// Title and body carry no validation tags: the repository sanitizes first
// and validates the sanitized values.
type CreatePostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
