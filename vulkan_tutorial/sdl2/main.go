package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
	"github.com/vkngwrapper/extensions/v3/khr_portability_subset"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"

	"github.com/vkngwrapper/presentation/presentation"
	"github.com/vkngwrapper/presentation/utils"
)

type HelloSwapchainApplication struct {
	config *utils.Config
	logger *slog.Logger

	window *sdl.Window

	globalDriver   core1_0.GlobalDriver
	instanceDriver core1_0.CoreInstanceDriver
	deviceDriver   core1_0.CoreDeviceDriver

	debugDriver      ext_debug_utils.ExtensionDriver
	debugMessenger   ext_debug_utils.DebugUtilsMessenger
	surfaceExtension khr_surface.ExtensionDriver
	surface          khr_surface.Surface

	driver           *presentation.VulkanDriver
	physicalDevice   core1_0.PhysicalDevice
	queueFamilies    presentation.QueueFamilyIndices
	deviceExtensions []string

	presenter *presentation.Presenter
}

func (app *HelloSwapchainApplication) Run() error {
	err := app.initWindow()
	if err != nil {
		return err
	}

	err = app.initVulkan()
	defer app.cleanup()
	if err != nil {
		return err
	}

	return app.mainLoop()
}

func (app *HelloSwapchainApplication) initWindow() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return err
	}

	window, err := sdl.CreateWindow(app.config.Window.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(app.config.Window.Width), int32(app.config.Window.Height),
		sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN|sdl.WINDOW_RESIZABLE|sdl.WINDOW_ALLOW_HIGHDPI)
	if err != nil {
		return err
	}
	app.window = window

	app.globalDriver, err = core.CreateDriverFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return err
	}

	return nil
}

func (app *HelloSwapchainApplication) initVulkan() error {
	err := app.createInstance()
	if err != nil {
		return err
	}

	err = app.setupDebugMessenger()
	if err != nil {
		return err
	}

	err = app.createSurface()
	if err != nil {
		return err
	}

	err = app.pickPhysicalDevice()
	if err != nil {
		return err
	}

	err = app.createLogicalDevice()
	if err != nil {
		return err
	}

	app.presenter = presentation.NewPresenter(app.driver, app.physicalDevice, app.surface, app.queueFamilies, app.window, app.logger)
	return app.presenter.Initialize()
}

func (app *HelloSwapchainApplication) mainLoop() error {
	for {
		event := sdl.WaitEvent()
		switch e := event.(type) {
		case *sdl.QuitEvent:
			_, err := app.deviceDriver.DeviceWaitIdle()
			return err
		case *sdl.WindowEvent:
			// SIZE_CHANGED follows every RESIZED, so handling both would rebuild twice.
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED || e.Event == sdl.WINDOWEVENT_RESTORED {
				err := app.recreateSwapChain()
				if err != nil {
					return err
				}
			}
		}
	}
}

func (app *HelloSwapchainApplication) recreateSwapChain() error {
	if (app.window.GetFlags() & sdl.WINDOW_MINIMIZED) != 0 {
		return nil
	}

	// Nothing may still be using the old swapchain when it is retired.
	_, err := app.deviceDriver.DeviceWaitIdle()
	if err != nil {
		return err
	}

	err = app.presenter.Recreate()
	if errors.Is(err, presentation.ErrSurfaceMinimized) {
		app.logger.Debug("surface has no area, keeping current swapchain")
		return nil
	}
	return err
}

func (app *HelloSwapchainApplication) cleanup() {
	if app.presenter != nil {
		app.presenter.Destroy()
	}

	if app.deviceDriver != nil {
		app.deviceDriver.DestroyDevice(nil)
	}

	if app.debugMessenger.Initialized() {
		app.debugDriver.DestroyDebugUtilsMessenger(app.debugMessenger, nil)
	}

	if app.surface.Initialized() {
		app.surfaceExtension.DestroySurface(app.surface, nil)
	}

	if app.instanceDriver != nil {
		app.instanceDriver.DestroyInstance(nil)
	}

	if app.window != nil {
		app.window.Destroy()
	}
	sdl.Quit()
}

func (app *HelloSwapchainApplication) createInstance() error {
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:    app.config.Window.Title,
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         "No Engine",
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_2,
	}

	// Add extensions
	sdlExtensions := app.window.VulkanGetInstanceExtensions()
	extensions, _, err := app.globalDriver.AvailableExtensions()
	if err != nil {
		return err
	}

	for _, ext := range sdlExtensions {
		_, hasExt := extensions[ext]
		if !hasExt {
			return errors.Errorf("createinstance: cannot initialize sdl: missing extension %s", ext)
		}
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, ext)
	}

	if app.config.Validation {
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, ext_debug_utils.ExtensionName)
	}

	_, enumerationSupported := extensions[khr_portability_enumeration.ExtensionName]
	if enumerationSupported {
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, khr_portability_enumeration.ExtensionName)
		instanceOptions.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	// Add layers
	if app.config.Validation {
		layers, _, err := app.globalDriver.AvailableLayers()
		if err != nil {
			return err
		}

		_, hasValidation := layers[utils.ValidationLayer]
		if !hasValidation {
			return errors.Errorf("createInstance: cannot add validation- layer %s not available- install LunarG Vulkan SDK or pass --no-validation", utils.ValidationLayer)
		}
		instanceOptions.EnabledLayerNames = append(instanceOptions.EnabledLayerNames, utils.ValidationLayer)

		// Add debug messenger
		instanceOptions.Next = app.debugMessengerOptions()
	}

	app.instanceDriver, _, err = app.globalDriver.CreateInstance(nil, instanceOptions)
	if err != nil {
		return err
	}

	return nil
}

func (app *HelloSwapchainApplication) debugMessengerOptions() ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback:    app.logDebug,
	}
}

func (app *HelloSwapchainApplication) setupDebugMessenger() error {
	if !app.config.Validation {
		return nil
	}

	var err error
	app.debugDriver = ext_debug_utils.CreateExtensionDriverFromCoreDriver(app.instanceDriver)
	app.debugMessenger, _, err = app.debugDriver.CreateDebugUtilsMessenger(nil, app.debugMessengerOptions())
	if err != nil {
		return err
	}

	return nil
}

func (app *HelloSwapchainApplication) createSurface() error {
	app.surfaceExtension = khr_surface.CreateExtensionDriverFromCoreDriver(app.instanceDriver)
	surface, err := vkng_sdl2.CreateSurface(app.instanceDriver.Instance(), app.surfaceExtension, app.window)
	if err != nil {
		return err
	}

	app.surface = surface
	app.driver = presentation.NewVulkanDriver(app.instanceDriver, app.surfaceExtension)
	return nil
}

func (app *HelloSwapchainApplication) pickPhysicalDevice() error {
	physicalDevices, _, err := app.instanceDriver.EnumeratePhysicalDevices()
	if err != nil {
		return err
	}

	if len(physicalDevices) == 0 {
		return errors.New("failed to find GPUs with Vulkan support!")
	}

	app.deviceExtensions = append(app.deviceExtensions, presentation.DefaultDeviceExtensions...)
	app.deviceExtensions = append(app.deviceExtensions, app.config.DeviceExtensions...)

	for _, device := range physicalDevices {
		indices, _, err := presentation.CheckDeviceSuitability(app.driver, device, app.surface, app.deviceExtensions)
		if presentation.IsInadequate(err) {
			app.logger.Debug("skipping physical device", "reason", err)
			continue
		} else if err != nil {
			return err
		}

		app.physicalDevice = device
		app.queueFamilies = indices
		return app.reportPhysicalDevice()
	}

	return errors.New("failed to find a suitable GPU!")
}

func (app *HelloSwapchainApplication) reportPhysicalDevice() error {
	properties, err := app.instanceDriver.GetPhysicalDeviceProperties(app.physicalDevice)
	if err != nil {
		return err
	}

	var cacheID uuid.UUID = properties.PipelineCacheUUID
	app.logger.Info("selected physical device",
		"name", properties.DeviceName,
		"pipelineCache", cacheID.String(),
		"graphicsFamily", *app.queueFamilies.GraphicsFamily,
		"presentFamily", *app.queueFamilies.PresentFamily)
	return nil
}

func (app *HelloSwapchainApplication) createLogicalDevice() error {
	var queueFamilyOptions []core1_0.DeviceQueueCreateInfo
	queuePriority := float32(1.0)
	for _, queueFamily := range app.queueFamilies.UniqueFamilies() {
		queueFamilyOptions = append(queueFamilyOptions, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: queueFamily,
			QueuePriorities:  []float32{queuePriority},
		})
	}

	var extensionNames []string
	extensionNames = append(extensionNames, app.deviceExtensions...)

	// Makes this example compatible with vulkan portability, necessary to run on mobile & mac
	extensions, _, err := app.instanceDriver.EnumerateDeviceExtensionProperties(app.physicalDevice)
	if err != nil {
		return err
	}

	_, supported := extensions[khr_portability_subset.ExtensionName]
	if supported {
		extensionNames = append(extensionNames, khr_portability_subset.ExtensionName)
	}

	app.deviceDriver, _, err = app.instanceDriver.CreateDevice(app.physicalDevice, nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queueFamilyOptions,
		EnabledFeatures:       &core1_0.PhysicalDeviceFeatures{},
		EnabledExtensionNames: extensionNames,
	})
	if err != nil {
		return err
	}

	app.driver.WithDevice(app.deviceDriver)
	return nil
}

func (app *HelloSwapchainApplication) logDebug(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
	level := slog.LevelWarn
	if (severity & ext_debug_utils.SeverityError) != 0 {
		level = slog.LevelError
	}
	app.logger.Log(context.Background(), level, data.Message, "type", msgType.String(), "severity", severity.String())
	return false
}

func main() {
	runtime.LockOSThread()

	config, err := utils.ProcessCommandLineArgs(os.Args[1:])
	if errors.Is(err, utils.ErrHelp) {
		utils.PrintUsage(os.Stdout)
		return
	} else if err != nil {
		log.Printf("%v\n", err)
		utils.PrintUsage(os.Stderr)
		os.Exit(2)
	}

	app := &HelloSwapchainApplication{
		config: config,
		logger: utils.InitLogger(os.Stdout, config.Log),
	}

	err = app.Run()
	if err != nil {
		log.Fatalf("%+v\n", err)
	}
}
