// Package vkdriver implements the bootstrap driver interfaces on vkngwrapper.
// Physical devices are addressed by enumeration index and looked up again on
// every call, so no device handle escapes this package.
package vkdriver

import (
	"fmt"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/bootstrap/bootstrap"
	"github.com/vkngwrapper/bootstrap/negotiate"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

// Global wraps the loader entry point.
type Global struct {
	driver core1_0.GlobalDriver

	// Verbose also forwards info validation messages. Verbose-severity
	// messages are always forwarded and left to the sink's log level.
	Verbose bool
}

// NewGlobal loads Vulkan through vkGetInstanceProcAddr, as returned by
// sdl.VulkanGetVkGetInstanceProcAddr.
func NewGlobal(procAddr unsafe.Pointer) (*Global, error) {
	driver, err := core.CreateDriverFromProcAddr(procAddr)
	if err != nil {
		return nil, errors.Wrap(err, "load vulkan")
	}
	return &Global{driver: driver}, nil
}

func (g *Global) AvailableExtensions() (map[string]struct{}, error) {
	extensions, _, err := g.driver.AvailableExtensions()
	if err != nil {
		return nil, err
	}

	out := make(map[string]struct{}, len(extensions))
	for name := range extensions {
		out[name] = struct{}{}
	}
	return out, nil
}

func (g *Global) AvailableLayers() (map[string]struct{}, error) {
	layers, _, err := g.driver.AvailableLayers()
	if err != nil {
		return nil, err
	}

	out := make(map[string]struct{}, len(layers))
	for name := range layers {
		out[name] = struct{}{}
	}
	return out, nil
}

func (g *Global) severities() ext_debug_utils.DebugUtilsMessageSeverityFlags {
	severity := ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning | ext_debug_utils.SeverityVerbose
	if g.Verbose {
		severity |= ext_debug_utils.SeverityInfo
	}
	return severity
}

func messengerCreateInfo(severity ext_debug_utils.DebugUtilsMessageSeverityFlags, sink bootstrap.DebugSink) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: severity,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback: func(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
			sink(debugMessage(msgType, severity, data))
			return false
		},
	}
}

func (g *Global) CreateInstance(info bootstrap.InstanceCreateInfo) (bootstrap.InstanceDriver, error) {
	options := core1_0.InstanceCreateInfo{
		ApplicationName:       info.ApplicationName,
		ApplicationVersion:    version(info.ApplicationVersion),
		EngineName:            info.EngineName,
		EngineVersion:         version(info.EngineVersion),
		APIVersion:            apiVersion(info.APIVersion),
		EnabledExtensionNames: info.EnabledExtensionNames,
		EnabledLayerNames:     info.EnabledLayerNames,
	}
	if info.EnumeratePortability {
		options.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}
	if info.DebugSink != nil {
		options.Next = messengerCreateInfo(g.severities(), info.DebugSink)
	}

	handle, _, err := g.driver.CreateInstance(nil, options)
	if err != nil {
		return nil, negotiate.Rejected(negotiate.StageInstance, err)
	}

	driver, err := g.driver.BuildInstanceDriver(handle)
	if err != nil {
		return nil, negotiate.Rejected(negotiate.StageInstance, errors.Wrap(err, "build instance driver"))
	}

	return &Instance{
		driver:     driver,
		severity:   g.severities(),
		surfaceKHR: khr_surface.CreateExtensionDriverFromCoreDriver(driver),
	}, nil
}

// Instance is a created instance plus the instance-level extension drivers.
type Instance struct {
	driver     core1_0.CoreInstanceDriver
	severity   ext_debug_utils.DebugUtilsMessageSeverityFlags
	surfaceKHR khr_surface.ExtensionDriver
	debug      ext_debug_utils.ExtensionDriver
}

func (i *Instance) surfaceExtension() (khr_surface.ExtensionDriver, error) {
	if i.surfaceKHR == nil {
		return nil, errors.Newf("%s is not enabled on this instance", khr_surface.ExtensionName)
	}
	return i.surfaceKHR, nil
}

func (i *Instance) physicalDevice(index int) (core1_0.PhysicalDevice, error) {
	devices, _, err := i.driver.EnumeratePhysicalDevices()
	if err != nil {
		return core1_0.PhysicalDevice{}, errors.Wrap(err, "enumerate physical devices")
	}
	if index < 0 || index >= len(devices) {
		return core1_0.PhysicalDevice{}, errors.Newf("physical device %d out of range (%d devices)", index, len(devices))
	}
	return devices[index], nil
}

func (i *Instance) EnumeratePhysicalDevices() (int, error) {
	devices, _, err := i.driver.EnumeratePhysicalDevices()
	if err != nil {
		return 0, err
	}
	return len(devices), nil
}

func (i *Instance) GetPhysicalDeviceProperties(index int) (*bootstrap.DeviceProperties, error) {
	device, err := i.physicalDevice(index)
	if err != nil {
		return nil, err
	}

	props, err := i.driver.GetPhysicalDeviceProperties(device)
	if err != nil {
		return nil, err
	}

	return &bootstrap.DeviceProperties{
		Name:              props.DriverName,
		Type:              fmt.Sprint(props.DriverType),
		VendorID:          props.VendorID,
		DeviceID:          props.DeviceID,
		APIVersion:        fmt.Sprint(props.APIVersion),
		PipelineCacheUUID: props.PipelineCacheUUID,
	}, nil
}

func (i *Instance) GetPhysicalDeviceQueueFamilyProperties(index int) ([]negotiate.QueueFamilyProperties, error) {
	device, err := i.physicalDevice(index)
	if err != nil {
		return nil, err
	}
	return queueFamilies(i.driver.GetPhysicalDeviceQueueFamilyProperties(device)), nil
}

func (i *Instance) EnumerateDeviceExtensionProperties(index int) (map[string]struct{}, error) {
	device, err := i.physicalDevice(index)
	if err != nil {
		return nil, err
	}

	extensions, _, err := i.driver.EnumerateDeviceExtensionProperties(device)
	if err != nil {
		return nil, err
	}

	out := make(map[string]struct{}, len(extensions))
	for name := range extensions {
		out[name] = struct{}{}
	}
	return out, nil
}

func (i *Instance) CreateDebugMessenger(sink bootstrap.DebugSink) (bootstrap.Messenger, error) {
	if i.debug == nil {
		i.debug = ext_debug_utils.CreateExtensionDriverFromCoreDriver(i.driver)
	}
	if i.debug == nil {
		return nil, errors.Newf("%s is not enabled on this instance", ext_debug_utils.ExtensionName)
	}

	messenger, _, err := i.debug.CreateDebugUtilsMessenger(nil, messengerCreateInfo(i.severity, sink))
	if err != nil {
		return nil, err
	}
	return &Messenger{debug: i.debug, handle: messenger}, nil
}

func (i *Instance) CreateDevice(index int, info bootstrap.DeviceCreateInfo) (bootstrap.DeviceDriver, error) {
	device, err := i.physicalDevice(index)
	if err != nil {
		return nil, err
	}

	options := core1_0.DeviceCreateInfo{
		EnabledExtensionNames: info.EnabledExtensionNames,
	}
	for _, queue := range info.QueueCreateInfos {
		options.QueueCreateInfos = append(options.QueueCreateInfos, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: queue.QueueFamilyIndex,
			QueuePriorities:  queue.QueuePriorities,
		})
	}

	handle, _, err := i.driver.CreateDevice(device, nil, options)
	if err != nil {
		return nil, negotiate.Rejected(negotiate.StageLogicalDevice, err)
	}

	driver, err := i.driver.BuildDeviceDriver(handle)
	if err != nil {
		return nil, negotiate.Rejected(negotiate.StageLogicalDevice, errors.Wrap(err, "build device driver"))
	}
	return &Device{driver: driver}, nil
}

func (i *Instance) DestroyInstance() {
	i.driver.DestroyInstance(nil)
}

// Messenger is a registered debug utils messenger.
type Messenger struct {
	debug  ext_debug_utils.ExtensionDriver
	handle ext_debug_utils.DebugUtilsMessenger
}

func (m *Messenger) DestroyDebugMessenger() {
	m.debug.DestroyDebugUtilsMessenger(m.handle, nil)
}
