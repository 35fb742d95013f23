// Package notify schedules local reminder alerts and delivers them through a
// Sender when they come due.
package notify

import (
	"context"
	"errors"
	"time"
)

// ErrPermissionDenied is returned by ScheduleAt after the user refused notifications.
var ErrPermissionDenied = errors.New("notification permission denied")

// Content is what the user sees when an alert fires.
type Content struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Scheduler schedules one-shot alerts and hands out opaque handles for them.
type Scheduler interface {
	// RequestPermission asks once whether alerts may be delivered.
	RequestPermission(ctx context.Context) (bool, error)

	// ScheduleAt arranges for c to be delivered at the given instant and
	// returns a handle that can later be passed to Cancel.
	ScheduleAt(ctx context.Context, c Content, at time.Time) (string, error)

	// Cancel drops a pending alert. Unknown or already-fired handles are not an error.
	Cancel(ctx context.Context, id string) error
}

// Sender delivers a fired alert to the user.
type Sender interface {
	Send(ctx context.Context, c Content) error

	// Ready reports whether the sender can currently deliver.
	Ready(ctx context.Context) error
}
