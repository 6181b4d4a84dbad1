package presentation

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// QueueFamily is a queue family as reported by the driver, in driver order.
type QueueFamily struct {
	Index    int
	Graphics bool
}

// SurfaceDriver is the set of physical-device queries negotiation needs before a
// logical device exists.
type SurfaceDriver interface {
	QueueFamilies(device core1_0.PhysicalDevice) []QueueFamily
	SurfaceSupport(device core1_0.PhysicalDevice, surface khr_surface.Surface, queueFamilyIndex int) (bool, error)
	SurfaceCapabilities(device core1_0.PhysicalDevice, surface khr_surface.Surface) (*khr_surface.SurfaceCapabilities, error)
	SurfaceFormats(device core1_0.PhysicalDevice, surface khr_surface.Surface) ([]khr_surface.SurfaceFormat, error)
	SurfacePresentModes(device core1_0.PhysicalDevice, surface khr_surface.Surface) ([]khr_surface.PresentMode, error)
	DeviceExtensions(device core1_0.PhysicalDevice) (map[string]struct{}, error)
}

// SwapchainDriver creates and tears down swapchains on a logical device.
type SwapchainDriver interface {
	CreateSwapchain(info khr_swapchain.SwapchainCreateInfo) (khr_swapchain.Swapchain, error)
	SwapchainImages(swapchain khr_swapchain.Swapchain) ([]core1_0.Image, error)
	DestroySwapchain(swapchain khr_swapchain.Swapchain)
}

type Driver interface {
	SurfaceDriver
	SwapchainDriver
}

var errNoDevice = errors.New("swapchain extension not loaded: call WithDevice after creating the logical device")

// VulkanDriver implements Driver on top of the vkngwrapper instance, surface and
// swapchain extension drivers.
type VulkanDriver struct {
	instanceDriver     core1_0.CoreInstanceDriver
	surfaceExtension   khr_surface.ExtensionDriver
	swapchainExtension khr_swapchain.ExtensionDriver
}

func NewVulkanDriver(instanceDriver core1_0.CoreInstanceDriver, surfaceExtension khr_surface.ExtensionDriver) *VulkanDriver {
	return &VulkanDriver{
		instanceDriver:   instanceDriver,
		surfaceExtension: surfaceExtension,
	}
}

// WithDevice loads the swapchain extension from the logical device. Until it is called,
// only the SurfaceDriver half of the adapter is usable.
func (d *VulkanDriver) WithDevice(deviceDriver core1_0.CoreDeviceDriver) *VulkanDriver {
	d.swapchainExtension = khr_swapchain.CreateExtensionDriverFromCoreDriver(deviceDriver)
	return d
}

func (d *VulkanDriver) QueueFamilies(device core1_0.PhysicalDevice) []QueueFamily {
	properties := d.instanceDriver.GetPhysicalDeviceQueueFamilyProperties(device)

	families := make([]QueueFamily, 0, len(properties))
	for index, family := range properties {
		families = append(families, QueueFamily{
			Index:    index,
			Graphics: (family.QueueFlags & core1_0.QueueGraphics) != 0,
		})
	}
	return families
}

func (d *VulkanDriver) SurfaceSupport(device core1_0.PhysicalDevice, surface khr_surface.Surface, queueFamilyIndex int) (bool, error) {
	supported, _, err := d.surfaceExtension.GetPhysicalDeviceSurfaceSupport(surface, device, queueFamilyIndex)
	return supported, err
}

func (d *VulkanDriver) SurfaceCapabilities(device core1_0.PhysicalDevice, surface khr_surface.Surface) (*khr_surface.SurfaceCapabilities, error) {
	capabilities, _, err := d.surfaceExtension.GetPhysicalDeviceSurfaceCapabilities(surface, device)
	return capabilities, err
}

func (d *VulkanDriver) SurfaceFormats(device core1_0.PhysicalDevice, surface khr_surface.Surface) ([]khr_surface.SurfaceFormat, error) {
	formats, _, err := d.surfaceExtension.GetPhysicalDeviceSurfaceFormats(surface, device)
	return formats, err
}

func (d *VulkanDriver) SurfacePresentModes(device core1_0.PhysicalDevice, surface khr_surface.Surface) ([]khr_surface.PresentMode, error) {
	modes, _, err := d.surfaceExtension.GetPhysicalDeviceSurfacePresentModes(surface, device)
	return modes, err
}

func (d *VulkanDriver) DeviceExtensions(device core1_0.PhysicalDevice) (map[string]struct{}, error) {
	extensions, _, err := d.instanceDriver.EnumerateDeviceExtensionProperties(device)
	if err != nil {
		return nil, err
	}

	names := make(map[string]struct{}, len(extensions))
	for name := range extensions {
		names[name] = struct{}{}
	}
	return names, nil
}

func (d *VulkanDriver) CreateSwapchain(info khr_swapchain.SwapchainCreateInfo) (khr_swapchain.Swapchain, error) {
	if d.swapchainExtension == nil {
		return khr_swapchain.Swapchain{}, errNoDevice
	}

	swapchain, _, err := d.swapchainExtension.CreateSwapchain(nil, info)
	return swapchain, err
}

func (d *VulkanDriver) SwapchainImages(swapchain khr_swapchain.Swapchain) ([]core1_0.Image, error) {
	if d.swapchainExtension == nil {
		return nil, errNoDevice
	}

	images, _, err := d.swapchainExtension.GetSwapchainImages(swapchain)
	return images, err
}

func (d *VulkanDriver) DestroySwapchain(swapchain khr_swapchain.Swapchain) {
	if d.swapchainExtension == nil || !swapchain.Initialized() {
		return
	}
	d.swapchainExtension.DestroySwapchain(swapchain, nil)
}
