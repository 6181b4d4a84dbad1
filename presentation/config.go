package presentation

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

var (
	PreferredFormat     = core1_0.FormatB8G8R8A8SRGB
	PreferredColorSpace = khr_surface.ColorSpaceSRGBNonlinear
	PreferredPresent    = khr_surface.PresentModeMailbox
	// FallbackPresent is the only present mode every implementation must support.
	FallbackPresent = khr_surface.PresentModeFIFO
)

// UndefinedExtent is the CurrentExtent width a surface reports when the application
// chooses the swapchain size itself. The driver widens the C uint32 to int, so it
// arrives as 4294967295; -1 is accepted too since it truncates to the same bits.
const UndefinedExtent = math.MaxUint32

// PresentationConfig is everything the swapchain create call needs that depends on the
// surface. It is computed fresh for every build.
type PresentationConfig struct {
	Format       core1_0.Format
	ColorSpace   khr_surface.ColorSpace
	PresentMode  khr_surface.PresentMode
	Extent       core1_0.Extent2D
	ImageCount   int
	PreTransform khr_surface.SurfaceTransformFlags
}

// SelectConfig applies the selection policy to a probed surface. requested is the
// framebuffer size in pixels and is only consulted when the surface lets the
// application pick the extent.
func SelectConfig(support SurfaceSupport, requested core1_0.Extent2D) (PresentationConfig, error) {
	err := inadequateSupport(support)
	if err != nil {
		return PresentationConfig{}, errors.Wrap(err, "select presentation config")
	}

	surfaceFormat := ChooseSurfaceFormat(support.Formats)

	return PresentationConfig{
		Format:       surfaceFormat.Format,
		ColorSpace:   surfaceFormat.ColorSpace,
		PresentMode:  ChoosePresentMode(support.PresentModes),
		Extent:       ChooseExtent(support.Capabilities, requested),
		ImageCount:   ChooseImageCount(support.Capabilities),
		PreTransform: support.Capabilities.CurrentTransform,
	}, nil
}

// ChooseSurfaceFormat returns the first 8-bit BGRA sRGB format in the sRGB nonlinear
// color space, or the first listed format when there is none. availableFormats must not
// be empty.
func ChooseSurfaceFormat(availableFormats []khr_surface.SurfaceFormat) khr_surface.SurfaceFormat {
	for _, format := range availableFormats {
		if format.Format == PreferredFormat && format.ColorSpace == PreferredColorSpace {
			return format
		}
	}

	return availableFormats[0]
}

func IsPreferredFormat(format khr_surface.SurfaceFormat) bool {
	return format.Format == PreferredFormat && format.ColorSpace == PreferredColorSpace
}

func ChoosePresentMode(availablePresentModes []khr_surface.PresentMode) khr_surface.PresentMode {
	for _, presentMode := range availablePresentModes {
		if presentMode == PreferredPresent {
			return presentMode
		}
	}

	return FallbackPresent
}

func ChooseExtent(capabilities *khr_surface.SurfaceCapabilities, requested core1_0.Extent2D) core1_0.Extent2D {
	if !IsUndefinedExtent(capabilities.CurrentExtent.Width) {
		return capabilities.CurrentExtent
	}

	return core1_0.Extent2D{
		Width:  clamp(requested.Width, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width),
		Height: clamp(requested.Height, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height),
	}
}

func IsUndefinedExtent(width int) bool {
	return uint32(width) == UndefinedExtent
}

// ChooseImageCount asks for one image more than the minimum so the application does
// not wait on the driver. A MaxImageCount of 0 means there is no maximum.
func ChooseImageCount(capabilities *khr_surface.SurfaceCapabilities) int {
	imageCount := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && capabilities.MaxImageCount < imageCount {
		imageCount = capabilities.MaxImageCount
	}
	return imageCount
}

func clamp(value, minimum, maximum int) int {
	if value < minimum {
		value = minimum
	}
	if value > maximum {
		value = maximum
	}
	return value
}
