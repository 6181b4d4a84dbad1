package presentation

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// DefaultDeviceExtensions are the device extensions presentation cannot work without.
var DefaultDeviceExtensions = []string{khr_swapchain.ExtensionName}

type SurfaceSupport struct {
	Capabilities *khr_surface.SurfaceCapabilities
	Formats      []khr_surface.SurfaceFormat
	PresentModes []khr_surface.PresentMode
}

// Adequate reports whether a swapchain can be configured from this support record.
func (s SurfaceSupport) Adequate() bool {
	return s.Capabilities != nil && len(s.Formats) > 0 && len(s.PresentModes) > 0
}

func inadequateSupport(support SurfaceSupport) error {
	if support.Adequate() {
		return nil
	}
	return errors.Wrapf(ErrDeviceInadequate, "surface reports %d formats and %d present modes",
		len(support.Formats), len(support.PresentModes))
}

// ProbeSurface collects capabilities, formats and present modes for a device and
// surface pair. Nothing is filtered here.
func ProbeSurface(driver SurfaceDriver, device core1_0.PhysicalDevice, surface khr_surface.Surface) (SurfaceSupport, error) {
	var support SurfaceSupport
	var err error

	support.Capabilities, err = driver.SurfaceCapabilities(device, surface)
	if err != nil {
		return support, errors.Wrap(err, "probe surface: capabilities")
	}

	support.Formats, err = driver.SurfaceFormats(device, surface)
	if err != nil {
		return support, errors.Wrap(err, "probe surface: formats")
	}

	support.PresentModes, err = driver.SurfacePresentModes(device, surface)
	if err != nil {
		return support, errors.Wrap(err, "probe surface: present modes")
	}

	return support, nil
}

func CheckDeviceExtensionSupport(driver SurfaceDriver, device core1_0.PhysicalDevice, required []string) error {
	extensions, err := driver.DeviceExtensions(device)
	if err != nil {
		return errors.Wrap(err, "enumerate device extensions")
	}

	var missing []string
	for _, extension := range required {
		if _, hasExtension := extensions[extension]; !hasExtension {
			missing = append(missing, extension)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return errors.Mark(errors.Newf("missing device extensions: %s", strings.Join(missing, ", ")), ErrExtensionMissing)
	}

	return nil
}

// CheckDeviceSuitability runs every presentation check against a candidate device. A
// rejection satisfies IsInadequate; any other error is a driver failure.
func CheckDeviceSuitability(driver SurfaceDriver, device core1_0.PhysicalDevice, surface khr_surface.Surface, required []string) (QueueFamilyIndices, SurfaceSupport, error) {
	indices, err := ResolveQueueFamilies(driver, device, surface)
	if err != nil {
		return indices, SurfaceSupport{}, err
	}

	if !indices.IsComplete() {
		return indices, SurfaceSupport{}, errors.Wrapf(ErrDeviceInadequate, "no queue family for graphics (%t) or present (%t)",
			indices.GraphicsFamily != nil, indices.PresentFamily != nil)
	}

	err = CheckDeviceExtensionSupport(driver, device, required)
	if err != nil {
		return indices, SurfaceSupport{}, err
	}

	support, err := ProbeSurface(driver, device, surface)
	if err != nil {
		return indices, support, err
	}

	return indices, support, inadequateSupport(support)
}
