package comments

import "errors"

var (
	// ErrUnauthenticated indicates no viewer session is present.
	ErrUnauthenticated = errors.New("please login to comment")

	// ErrPostNotFound indicates the post is not in the loaded view,
	// e.g. opening a comment thread for an unloaded post.
	ErrPostNotFound = errors.New("post not found")

	// ErrContentEmpty indicates comment content is empty.
	ErrContentEmpty = errors.New("comment content is required")
)
