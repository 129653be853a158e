package votes

import "errors"

var (
	// ErrUnauthenticated indicates no viewer session is present; the
	// vote is rejected before any network call.
	ErrUnauthenticated = errors.New("please login to vote")

	// ErrInvalidDirection indicates the requested direction is not
	// "up" or "down".
	ErrInvalidDirection = errors.New("invalid vote direction: must be 'up' or 'down'")

	// ErrPostNotFound indicates the target post is not in the loaded
	// view.
	ErrPostNotFound = errors.New("post not found")

	// ErrVoteInFlight indicates a vote for the same post is still
	// awaiting backend confirmation. Responses are applied in
	// completion order, so a second in-flight request could leave the
	// displayed state stale; the coordinator refuses it instead.
	ErrVoteInFlight = errors.New("a vote for this post is already in progress")
)
