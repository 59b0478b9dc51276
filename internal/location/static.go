package location

import (
	"context"
	"time"
)

// StaticDevice is a Device pinned to fixed coordinates. It stands in for
// platform location on deployments that have no positioning hardware,
// such as a kiosk or a development box.
type StaticDevice struct {
	lat float64
	lon float64
	now func() time.Time
}

var _ Device = (*StaticDevice)(nil)

// NewStaticDevice creates a device that always reports the given
// coordinates.
func NewStaticDevice(lat, lon float64) *StaticDevice {
	return &StaticDevice{lat: lat, lon: lon, now: time.Now}
}

func (d *StaticDevice) HasPermission(_ context.Context) (bool, error) {
	return true, nil
}

func (d *StaticDevice) RequestPermission(_ context.Context) (bool, error) {
	return true, nil
}

func (d *StaticDevice) ServiceEnabled(_ context.Context) (bool, error) {
	return true, nil
}

func (d *StaticDevice) CurrentFix(_ context.Context, accuracy Accuracy) (*Fix, error) {
	return &Fix{Lat: d.lat, Lon: d.lon, Accuracy: accuracy, Timestamp: d.now()}, nil
}

func (d *StaticDevice) LastKnownFix(_ context.Context) (*Fix, error) {
	return &Fix{Lat: d.lat, Lon: d.lon, Accuracy: AccuracyLow, Timestamp: d.now()}, nil
}

// DisabledDevice is a Device with location services permanently off. Used
// when no coordinates are configured, so resolution degrades to the
// location_disabled status instead of failing.
type DisabledDevice struct{}

var _ Device = DisabledDevice{}

func (DisabledDevice) HasPermission(_ context.Context) (bool, error)    { return true, nil }
func (DisabledDevice) RequestPermission(_ context.Context) (bool, error) { return false, nil }
func (DisabledDevice) ServiceEnabled(_ context.Context) (bool, error)   { return false, nil }

func (DisabledDevice) CurrentFix(_ context.Context, _ Accuracy) (*Fix, error) {
	return nil, context.Canceled
}

func (DisabledDevice) LastKnownFix(_ context.Context) (*Fix, error) {
	return nil, nil
}
