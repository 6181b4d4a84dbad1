package presentation

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrDeviceInadequate marks a physical device that cannot present to the surface: no
	// graphics or present queue family, or an empty format or present mode list. The
	// device picker should move on to the next candidate.
	ErrDeviceInadequate = errors.New("device inadequate for presentation")
	// ErrExtensionMissing marks a device lacking a required device extension. It is
	// recoverable the same way as ErrDeviceInadequate.
	ErrExtensionMissing = errors.New("required device extension missing")
	// ErrSwapchainCreation marks a failed swapchain create call. It is fatal.
	ErrSwapchainCreation = errors.New("swapchain creation failed")
	ErrInvalidTransition = errors.New("invalid presenter state transition")
	ErrSurfaceMinimized  = errors.New("surface has zero drawable size")
)

// IsInadequate reports whether err rejects a candidate device rather than signalling a
// driver failure.
func IsInadequate(err error) bool {
	return errors.Is(err, ErrDeviceInadequate) || errors.Is(err, ErrExtensionMissing)
}
