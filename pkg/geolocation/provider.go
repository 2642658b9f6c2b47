package geolocation

import (
	"context"
	"errors"

	"github.com/censo-resguardo/censo-backend/pkg/survey/types"
)

var (
	// ErrPermissionDenied is returned when the device refused the location
	// permission grant.
	ErrPermissionDenied = errors.New("location permission denied")

	// ErrTimeout is returned when no fix arrived within the configured
	// acquisition window.
	ErrTimeout = errors.New("location acquisition timed out")
)

// Provider acquires the current device position. Implementations must
// respect the context deadline; callers are expected to guard against
// late results applying to a no-longer-current survey.
type Provider interface {
	Current(ctx context.Context) (types.Coordinates, error)
}

// StaticProvider always returns a fixed position, used for tests and for
// devices without any location capability.
type StaticProvider struct {
	Position types.Coordinates
}

func (p StaticProvider) Current(ctx context.Context) (types.Coordinates, error) {
	return p.Position, nil
}
