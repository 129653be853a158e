// Package remote is the HTTP client for the BRACULA backend API. Every
// endpoint speaks the same JSON envelope:
//
//	{ "status": "success" | "error", "message"?: string, "data"?: ... }
//
// The client decodes the envelope, classifies failures into typed
// errors, and exposes one method per backend operation. It holds no
// state of its own; all view state lives in the core packages.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Client talks to the backend API at a fixed base URL.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for the backend at baseURL. The client has
// no request timeout of its own; callers bound individual requests with
// a context deadline where one is required.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// envelope is the response wrapper shared by all endpoints.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// do issues the request, checks the envelope, and returns the raw data
// payload along with the envelope message.
func (c *Client) do(op string, req *http.Request) (json.RawMessage, string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", wrapTransportError(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", wrapTransportError(op, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, "", &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("malformed response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &NetworkError{Op: op, StatusCode: resp.StatusCode, Message: env.Message}
	}
	if env.Status != "success" {
		return nil, "", &NetworkError{Op: op, StatusCode: resp.StatusCode, Message: env.Message}
	}
	return env.Data, env.Message, nil
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) (string, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", op, err)
	}
	data, msg, err := c.do(op, req)
	if err != nil {
		return "", err
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return "", &NetworkError{Op: op, Err: fmt.Errorf("malformed data: %w", err)}
		}
	}
	return msg, nil
}

func (c *Client) post(ctx context.Context, op, path string, body any, out any) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%s: encode request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	data, msg, err := c.do(op, req)
	if err != nil {
		return "", err
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return "", &NetworkError{Op: op, Err: fmt.Errorf("malformed data: %w", err)}
		}
	}
	return msg, nil
}

// GetPosts fetches one page of posts for the given filters, annotated
// for the viewer identified by q.ViewerID.
func (c *Client) GetPosts(ctx context.Context, q PostQuery) ([]Post, error) {
	params := url.Values{
		"sortBy":    {q.SortBy},
		"community": {q.Community},
		"page":      {strconv.Itoa(q.Page)},
		"user_id":   {formatViewerID(q.ViewerID)},
	}
	if q.Query != "" {
		params.Set("query", q.Query)
	}
	var posts []Post
	if _, err := c.get(ctx, "get posts", "/posts", params, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePost creates a post and returns the backend's record of it.
func (c *Client) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	var post Post
	if _, err := c.post(ctx, "create post", "/posts", req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// EditPost rewrites a post's caption, content, and community and
// returns the backend's updated record. The response carries no viewer
// annotations; callers merge it over their local copy.
func (c *Client) EditPost(ctx context.Context, req EditPostRequest) (*Post, error) {
	var post Post
	if _, err := c.post(ctx, "edit post", "/posts/edit", req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post and everything hanging off it (comments,
// votes, activity records). The backend rejects the request when
// viewerID is not the post's author.
func (c *Client) DeletePost(ctx context.Context, postID, viewerID int64) error {
	body := map[string]any{"post_id": postID, "user_id": viewerID}
	_, err := c.post(ctx, "delete post", "/posts/delete", body, nil)
	return err
}

// Vote submits one vote transition and returns the authoritative count
// and viewer vote state the backend reports.
//
// The vote endpoint is the one contract that replies outside the data
// field, so it is decoded separately.
func (c *Client) Vote(ctx context.Context, req VoteRequest) (*VoteResult, error) {
	const op = "vote"
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", op, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/posts/vote", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, wrapTransportError(op, err)
	}
	defer resp.Body.Close()

	var body struct {
		Status   string  `json:"status"`
		Message  string  `json:"message"`
		NewCount int     `json:"new_vote_count"`
		UserVote *string `json:"user_vote"` // null when the vote was removed
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("malformed response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || body.Status != "success" {
		return nil, &NetworkError{Op: op, StatusCode: resp.StatusCode, Message: body.Message}
	}

	result := &VoteResult{NewCount: body.NewCount, Message: body.Message}
	if body.UserVote != nil {
		result.UserVote = *body.UserVote
	}
	return result, nil
}

// Save submits a save or unsave action for a post.
func (c *Client) Save(ctx context.Context, req SaveRequest) error {
	_, err := c.post(ctx, "save post", "/posts/save", req, nil)
	return err
}

// GetSavedPosts fetches the viewer's saved posts.
func (c *Client) GetSavedPosts(ctx context.Context, viewerID int64) ([]Post, error) {
	params := url.Values{"user_id": {formatViewerID(viewerID)}}
	var posts []Post
	if _, err := c.get(ctx, "get saved posts", "/posts/saved", params, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetComments fetches the flat comment list for a post. Threading is
// the caller's concern.
func (c *Client) GetComments(ctx context.Context, postID int64) ([]Comment, error) {
	params := url.Values{"post_id": {strconv.FormatInt(postID, 10)}}
	var comments []Comment
	if _, err := c.get(ctx, "get comments", "/comments", params, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment creates a comment or reply and returns it along with
// the post's updated comment count.
func (c *Client) CreateComment(ctx context.Context, req CreateCommentRequest) (*CreateCommentResponse, error) {
	var data struct {
		Comment
		CommentCount int `json:"comment_count"`
	}
	if _, err := c.post(ctx, "create comment", "/comments", req, &data); err != nil {
		return nil, err
	}
	return &CreateCommentResponse{Comment: data.Comment, CommentCount: data.CommentCount}, nil
}

// EditComment rewrites a comment's content and returns the backend's
// updated record.
func (c *Client) EditComment(ctx context.Context, req EditCommentRequest) (*Comment, error) {
	var comment Comment
	if _, err := c.post(ctx, "edit comment", "/comments/edit", req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment and its replies and returns the
// post's recounted comment total.
func (c *Client) DeleteComment(ctx context.Context, commentID, viewerID int64) (int, error) {
	body := map[string]any{"comment_id": commentID, "user_id": viewerID}
	var data struct {
		CommentCount int `json:"comment_count"`
	}
	if _, err := c.post(ctx, "delete comment", "/comments/delete", body, &data); err != nil {
		return 0, err
	}
	return data.CommentCount, nil
}

// GetNotifications fetches the viewer's notifications. Callers are
// expected to bound this with a deadline context; it is the only
// operation the core runs under an explicit timeout.
func (c *Client) GetNotifications(ctx context.Context) ([]Notification, error) {
	var notifications []Notification
	if _, err := c.get(ctx, "get notifications", "/notifications", nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// UpdateReadStatus reports a single notification's read state change.
func (c *Client) UpdateReadStatus(ctx context.Context, id int64, read bool) error {
	body := map[string]any{
		"action":          "update_read_status",
		"notification_id": id,
		"is_read":         read,
	}
	_, err := c.post(ctx, "update read status", "/notifications", body, nil)
	return err
}

// MarkAllRead reports that every notification has been read.
func (c *Client) MarkAllRead(ctx context.Context) error {
	body := map[string]any{"action": "mark_all_read"}
	_, err := c.post(ctx, "mark all read", "/notifications", body, nil)
	return err
}

// AddNotification registers a locally created notification and returns
// the permanent ID the backend assigned for it.
func (c *Client) AddNotification(ctx context.Context, n Notification) (int64, error) {
	body := map[string]any{
		"action":       "add_notification",
		"notification": n,
	}
	var data struct {
		ID int64 `json:"id"`
	}
	if _, err := c.post(ctx, "add notification", "/notifications", body, &data); err != nil {
		return 0, err
	}
	return data.ID, nil
}

// TrackActivity records a user action in the activity history. Failures
// here are advisory; callers log and move on.
func (c *Client) TrackActivity(ctx context.Context, req ActivityRequest) error {
	_, err := c.post(ctx, "track activity", "/activity", req, nil)
	return err
}

func formatViewerID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
