package presentation

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// SwapImageChain is a built swapchain with the images the driver produced for it. It
// must be destroyed before the surface and the logical device.
type SwapImageChain struct {
	Swapchain   khr_swapchain.Swapchain
	Images      []core1_0.Image
	Format      core1_0.Format
	ColorSpace  khr_surface.ColorSpace
	PresentMode khr_surface.PresentMode
	Extent      core1_0.Extent2D

	destroyed bool
}

func (c *SwapImageChain) Destroy(driver SwapchainDriver) {
	if c == nil || c.destroyed {
		return
	}

	driver.DestroySwapchain(c.Swapchain)
	c.Images = nil
	c.destroyed = true
}

func (c *SwapImageChain) Destroyed() bool {
	return c.destroyed
}

// SharingMode picks exclusive ownership when graphics and present share a family, and
// concurrent sharing across exactly those two families otherwise.
func SharingMode(indices QueueFamilyIndices) (core1_0.SharingMode, []int, error) {
	if !indices.IsComplete() {
		return core1_0.SharingModeExclusive, nil, errors.Wrap(ErrDeviceInadequate, "sharing mode: queue families incomplete")
	}

	if *indices.GraphicsFamily != *indices.PresentFamily {
		return core1_0.SharingModeConcurrent, []int{*indices.GraphicsFamily, *indices.PresentFamily}, nil
	}

	return core1_0.SharingModeExclusive, nil, nil
}

// SwapchainCreateInfo fills the create call for config. previous is retired by the
// driver when it is not nil.
func SwapchainCreateInfo(surface khr_surface.Surface, config PresentationConfig, indices QueueFamilyIndices, previous *SwapImageChain) (khr_swapchain.SwapchainCreateInfo, error) {
	sharingMode, queueFamilyIndices, err := SharingMode(indices)
	if err != nil {
		return khr_swapchain.SwapchainCreateInfo{}, err
	}

	info := khr_swapchain.SwapchainCreateInfo{
		Surface: surface,

		MinImageCount:    config.ImageCount,
		ImageFormat:      config.Format,
		ImageColorSpace:  config.ColorSpace,
		ImageExtent:      config.Extent,
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   sharingMode,
		QueueFamilyIndices: queueFamilyIndices,

		PreTransform:   config.PreTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    config.PresentMode,
		Clipped:        true,
	}

	if previous != nil && !previous.destroyed {
		info.OldSwapchain = previous.Swapchain
	}

	return info, nil
}

// BuildSwapchain creates the swapchain and fetches its images. Any failure here is
// marked ErrSwapchainCreation. previous is not destroyed; the caller does that once the
// new chain exists.
func BuildSwapchain(driver SwapchainDriver, surface khr_surface.Surface, config PresentationConfig, indices QueueFamilyIndices, previous *SwapImageChain) (*SwapImageChain, error) {
	info, err := SwapchainCreateInfo(surface, config, indices, previous)
	if err != nil {
		return nil, err
	}

	swapchain, err := driver.CreateSwapchain(info)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "create swapchain"), ErrSwapchainCreation)
	}

	images, err := driver.SwapchainImages(swapchain)
	if err != nil {
		driver.DestroySwapchain(swapchain)
		return nil, errors.Mark(errors.Wrap(err, "get swapchain images"), ErrSwapchainCreation)
	}

	return &SwapImageChain{
		Swapchain:   swapchain,
		Images:      images,
		Format:      config.Format,
		ColorSpace:  config.ColorSpace,
		PresentMode: config.PresentMode,
		Extent:      config.Extent,
	}, nil
}
