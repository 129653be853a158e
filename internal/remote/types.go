package remote

import "time"

// Post is a feed post as returned by the backend, annotated for the
// requesting viewer (user_vote, is_saved, commentCount).
type Post struct {
	CreatedAt    time.Time `json:"timestamp"`
	Author       string    `json:"author"`
	Community    string    `json:"community"`
	Caption      string    `json:"caption"`
	Content      string    `json:"content"`
	ImageURL     string    `json:"image_url,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	UserVote     string    `json:"user_vote"` // "", "up" or "down"
	ID           int64     `json:"id"`
	AuthorID     int64     `json:"user_id"`
	Votes        int       `json:"votes"`
	CommentCount int       `json:"commentCount"`
	Saved        bool      `json:"is_saved"`
}

// Comment is a single comment from the flat list the backend returns.
// ParentID is nil for top-level comments.
type Comment struct {
	CreatedAt time.Time `json:"created_at"`
	ParentID  *int64    `json:"parent_id"`
	Author    string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Content   string    `json:"content"`
	ID        int64     `json:"comment_id"`
	PostID    int64     `json:"post_id"`
	AuthorID  int64     `json:"user_id"`
}

// Notification is a notification record. IDs are server-assigned for
// fetched records; locally created records carry a negative temporary
// ID until the backend assigns a permanent one. Kind classifies the
// record for display ("general" when the backend sends none).
type Notification struct {
	CreatedAt time.Time `json:"created_at"`
	Kind      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	ID        int64     `json:"id"`
	Read      bool      `json:"is_read"`
}

// PostQuery describes a feed page request.
type PostQuery struct {
	SortBy    string
	Community string
	Query     string
	Page      int
	ViewerID  int64
}

// CreatePostRequest contains the fields for creating a post.
type CreatePostRequest struct {
	Caption   string `json:"caption"`
	Content   string `json:"content"`
	Community string `json:"community"`
	UserID    int64  `json:"user_id"`
}

// EditPostRequest contains the fields for rewriting a post. Only the
// post's author may edit it; the backend enforces ownership.
type EditPostRequest struct {
	Caption   string `json:"caption"`
	Content   string `json:"content"`
	Community string `json:"community"`
	PostID    int64  `json:"post_id"`
	UserID    int64  `json:"user_id"`
}

// VoteRequest describes one vote transition for a post.
type VoteRequest struct {
	VoteType string `json:"vote_type"` // "up" or "down"
	PostID   int64  `json:"post_id"`
	UserID   int64  `json:"user_id"`
}

// VoteResult carries the authoritative state the backend reports after
// a vote. UserVote is empty when the vote was removed.
type VoteResult struct {
	UserVote string
	Message  string
	NewCount int
}

// SaveRequest describes a save or unsave action on a post.
type SaveRequest struct {
	Action string `json:"action"` // "save" or "unsave"
	PostID int64  `json:"post_id"`
	UserID int64  `json:"user_id"`
}

// CreateCommentRequest contains the fields for creating a comment or a
// reply. ParentID is nil for top-level comments.
type CreateCommentRequest struct {
	ParentID *int64 `json:"parent_id,omitempty"`
	Content  string `json:"content"`
	PostID   int64  `json:"post_id"`
	UserID   int64  `json:"user_id"`
}

// CreateCommentResponse is the created comment plus the post's updated
// comment count.
type CreateCommentResponse struct {
	Comment      Comment
	CommentCount int
}

// EditCommentRequest contains the fields for rewriting a comment. Only
// the comment's author may edit it; the backend enforces ownership.
type EditCommentRequest struct {
	Content   string `json:"content"`
	CommentID int64  `json:"comment_id"`
	UserID    int64  `json:"user_id"`
}

// ActivityRequest records a user action for the activity history.
type ActivityRequest struct {
	ActivityType string `json:"activity_type"`
	UserID       int64  `json:"user_id"`
	ContentID    int64  `json:"content_id"`
}
