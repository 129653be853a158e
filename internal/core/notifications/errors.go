package notifications

import "errors"

// ErrNotFound indicates the notification id is not in the list.
var ErrNotFound = errors.New("notification not found")
