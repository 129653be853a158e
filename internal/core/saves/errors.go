package saves

import "errors"

var (
	// ErrUnauthenticated indicates no viewer session is present.
	ErrUnauthenticated = errors.New("please login to save posts")

	// ErrPostNotFound indicates the target post is not in the loaded
	// view.
	ErrPostNotFound = errors.New("post not found")

	// ErrSaveInFlight indicates a save request for the same post is
	// still awaiting backend confirmation.
	ErrSaveInFlight = errors.New("a save for this post is already in progress")

	// ErrConfirmationRequired indicates an unsave was attempted
	// without the viewer confirming it. Saving needs no confirmation;
	// unsaving does, because saved-items views drop the post
	// immediately.
	ErrConfirmationRequired = errors.New("unsave requires confirmation")
)
