package utils

const (
	DefaultWindowTitle  = "Vulkan"
	DefaultWindowWidth  = 800
	DefaultWindowHeight = 600

	ValidationLayer = "VK_LAYER_KHRONOS_validation"
)
