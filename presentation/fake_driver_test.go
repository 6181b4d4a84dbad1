package presentation

import (
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/core/v3/mocks"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

type fakeDriver struct {
	families        []QueueFamily
	presentFamilies map[int]bool
	supportErr      error
	supportCalls    []int

	capabilities    *khr_surface.SurfaceCapabilities
	formats         []khr_surface.SurfaceFormat
	presentModes    []khr_surface.PresentMode
	capabilitiesErr error
	probeCalls      int

	extensions map[string]struct{}

	device     core1_0.Device
	imageCount int
	createErr  error
	imagesErr  error
	created    []khr_swapchain.SwapchainCreateInfo
	destroyed  int
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		families:        []QueueFamily{{Index: 0, Graphics: true}},
		presentFamilies: map[int]bool{0: true},
		capabilities: &khr_surface.SurfaceCapabilities{
			MinImageCount:  2,
			MaxImageCount:  0,
			CurrentExtent:  core1_0.Extent2D{Width: 800, Height: 600},
			MinImageExtent: core1_0.Extent2D{Width: 1, Height: 1},
			MaxImageExtent: core1_0.Extent2D{Width: 4096, Height: 4096},
		},
		formats: []khr_surface.SurfaceFormat{
			{Format: core1_0.FormatB8G8R8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear},
		},
		presentModes: []khr_surface.PresentMode{khr_surface.PresentModeFIFO, khr_surface.PresentModeMailbox},
		extensions:   map[string]struct{}{khr_swapchain.ExtensionName: {}},
		device:       mocks.NewDummyDevice(common.Vulkan1_0, []string{khr_swapchain.ExtensionName}),
		imageCount:   3,
	}
}

func (d *fakeDriver) QueueFamilies(device core1_0.PhysicalDevice) []QueueFamily {
	return d.families
}

func (d *fakeDriver) SurfaceSupport(device core1_0.PhysicalDevice, surface khr_surface.Surface, queueFamilyIndex int) (bool, error) {
	d.supportCalls = append(d.supportCalls, queueFamilyIndex)
	if d.supportErr != nil {
		return false, d.supportErr
	}
	return d.presentFamilies[queueFamilyIndex], nil
}

func (d *fakeDriver) SurfaceCapabilities(device core1_0.PhysicalDevice, surface khr_surface.Surface) (*khr_surface.SurfaceCapabilities, error) {
	d.probeCalls++
	if d.capabilitiesErr != nil {
		return nil, d.capabilitiesErr
	}
	return d.capabilities, nil
}

func (d *fakeDriver) SurfaceFormats(device core1_0.PhysicalDevice, surface khr_surface.Surface) ([]khr_surface.SurfaceFormat, error) {
	return d.formats, nil
}

func (d *fakeDriver) SurfacePresentModes(device core1_0.PhysicalDevice, surface khr_surface.Surface) ([]khr_surface.PresentMode, error) {
	return d.presentModes, nil
}

func (d *fakeDriver) DeviceExtensions(device core1_0.PhysicalDevice) (map[string]struct{}, error) {
	return d.extensions, nil
}

func (d *fakeDriver) CreateSwapchain(info khr_swapchain.SwapchainCreateInfo) (khr_swapchain.Swapchain, error) {
	if d.createErr != nil {
		return khr_swapchain.Swapchain{}, d.createErr
	}
	d.created = append(d.created, info)
	return khr_swapchain.NewDummySwapchain(d.device), nil
}

func (d *fakeDriver) SwapchainImages(swapchain khr_swapchain.Swapchain) ([]core1_0.Image, error) {
	if d.imagesErr != nil {
		return nil, d.imagesErr
	}
	return make([]core1_0.Image, d.imageCount), nil
}

func (d *fakeDriver) DestroySwapchain(swapchain khr_swapchain.Swapchain) {
	d.destroyed++
}

type fakeWindow struct {
	width, height int32
}

func (w *fakeWindow) VulkanGetDrawableSize() (int32, int32) {
	return w.width, w.height
}

func intPtr(i int) *int {
	return &i
}
