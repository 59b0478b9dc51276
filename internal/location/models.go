// Package location acquires a geographic fix with layered fallback:
// cached fix, live acquisition with a bounded wait, then last-known fix.
// Expected failures are reported as a status, never as an error.
package location

import (
	"context"
	"time"
)

// Accuracy is the requested fix accuracy tier.
type Accuracy string

const (
	AccuracyHigh Accuracy = "high"
	AccuracyLow  Accuracy = "low"
)

// Status tags every resolution result. Callers must not infer the outcome
// from a nil/non-nil fix alone.
type Status string

const (
	StatusUnknown          Status = "unknown"
	StatusPermissionDenied Status = "permission_denied"
	StatusLocationDisabled Status = "location_disabled"
	StatusNoInternet       Status = "no_internet"
	StatusTimeout          Status = "timeout"
	StatusError            Status = "error"
	StatusSuccess          Status = "success"
	StatusCached           Status = "cached"
)

// Fix is a resolved geographic coordinate.
type Fix struct {
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Accuracy  Accuracy  `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// Result carries the fix (possibly nil), the status describing how it was or
// was not obtained, and a user-facing message.
type Result struct {
	Fix     *Fix   `json:"fix,omitempty"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`

	// PromptSettings signals the caller to offer opening device settings.
	// Set for the permission_denied and location_disabled cases.
	PromptSettings bool `json:"prompt_settings,omitempty"`
}

// Device abstracts the platform location capability.
type Device interface {
	// HasPermission reports whether location permission is granted.
	HasPermission(ctx context.Context) (bool, error)

	// RequestPermission asks the user for permission and reports the outcome.
	RequestPermission(ctx context.Context) (bool, error)

	// ServiceEnabled reports whether device location services are on.
	ServiceEnabled(ctx context.Context) (bool, error)

	// CurrentFix acquires a live fix at the given accuracy. It must honor
	// the context deadline.
	CurrentFix(ctx context.Context, accuracy Accuracy) (*Fix, error)

	// LastKnownFix returns the platform's last known fix, or nil if none.
	LastKnownFix(ctx context.Context) (*Fix, error)
}
