package models

import "time"

// PostAuthor is the author projection embedded in post responses.
type PostAuthor struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}

// Post represents a row in the PostgreSQL posts table.
type Post struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	Img       *string     `json:"img"`
	AuthorID  string      `json:"author_id"`
	Author    *PostAuthor `json:"author,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// PostPatch carries a partial post update. Nil means the field was omitted.
type PostPatch struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Img     *string `json:"img"`
}

// CreatePostRequest is the JSON body for POST /posts.
type CreatePostRequest struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Img     *string `json:"img"`
}

// ActivityEvent is one entry in a user's activity trail, stored in MongoDB.
type ActivityEvent struct {
	UserID    string    `json:"user_id"    bson:"user_id"`
	Action    string    `json:"action"     bson:"action"`
	ObjectID  string    `json:"object_id,omitempty" bson:"object_id,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
