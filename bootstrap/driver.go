package bootstrap

import (
	"github.com/google/uuid"
	"github.com/vkngwrapper/bootstrap/negotiate"
)

// Instance extension names the bootstrap enables on its own.
const (
	ExtensionDebugUtils             = "VK_EXT_debug_utils"
	ExtensionPortabilityEnumeration = "VK_KHR_portability_enumeration"
	ExtensionPortabilitySubset      = "VK_KHR_portability_subset"
)

// Version is a Vulkan-style major.minor.patch triple.
type Version struct {
	Major, Minor, Patch int
}

// InstanceCreateInfo is everything the driver needs to create an instance.
type InstanceCreateInfo struct {
	ApplicationName    string
	ApplicationVersion Version
	EngineName         string
	EngineVersion      Version
	APIVersion         Version

	EnabledExtensionNames []string
	EnabledLayerNames     []string

	// EnumeratePortability sets the portability enumeration create flag.
	EnumeratePortability bool
	// DebugSink, when set, also receives messages emitted while the instance
	// itself is being created and destroyed.
	DebugSink DebugSink
}

// DeviceProperties describes a physical device for diagnostics.
type DeviceProperties struct {
	Name              string
	Type              string
	VendorID          uint32
	DeviceID          uint32
	APIVersion        string
	PipelineCacheUUID uuid.UUID
}

// DeviceQueueCreateInfo requests queues from one family.
type DeviceQueueCreateInfo struct {
	QueueFamilyIndex int
	QueuePriorities  []float32
}

// DeviceCreateInfo describes the logical device to create. No device features
// are ever enabled.
type DeviceCreateInfo struct {
	QueueCreateInfos      []DeviceQueueCreateInfo
	EnabledExtensionNames []string
}

// SwapchainCreateInfo is a negotiated swapchain plus the surface it targets.
// Usage is always color attachment, composite alpha opaque and there is no
// old swapchain.
type SwapchainCreateInfo struct {
	Surface    SurfaceDriver
	Parameters negotiate.SwapchainParameters
}

// Queue is an opaque queue handle owned by a DeviceDriver.
type Queue any

// Image is an opaque swapchain image handle owned by a SwapchainDriver.
type Image any

// GlobalDriver is the entry point of the graphics API, before any instance
// exists.
type GlobalDriver interface {
	AvailableExtensions() (map[string]struct{}, error)
	AvailableLayers() (map[string]struct{}, error)
	CreateInstance(info InstanceCreateInfo) (InstanceDriver, error)
}

// InstanceDriver is a live instance. Physical devices are addressed by their
// enumeration index; implementations re-derive the device from the instance
// on every call instead of handing out long-lived device handles.
type InstanceDriver interface {
	EnumeratePhysicalDevices() (int, error)
	GetPhysicalDeviceProperties(device int) (*DeviceProperties, error)
	GetPhysicalDeviceQueueFamilyProperties(device int) ([]negotiate.QueueFamilyProperties, error)
	EnumerateDeviceExtensionProperties(device int) (map[string]struct{}, error)

	CreateDebugMessenger(sink DebugSink) (Messenger, error)
	CreateDevice(device int, info DeviceCreateInfo) (DeviceDriver, error)

	DestroyInstance()
}

// Messenger is a registered debug callback.
type Messenger interface {
	DestroyDebugMessenger()
}

// SurfaceDriver is a presentable surface bound to one instance.
type SurfaceDriver interface {
	GetSurfaceCapabilities(device int) (*negotiate.Capabilities, error)
	GetSurfaceSupport(device, family int) (bool, error)
	DestroySurface()
}

// DeviceDriver is a live logical device.
type DeviceDriver interface {
	GetQueue(family, index int) Queue
	CreateSwapchain(info SwapchainCreateInfo) (SwapchainDriver, error)
	DestroyDevice()
}

// SwapchainDriver is a live swapchain.
type SwapchainDriver interface {
	GetSwapchainImages() ([]Image, error)
	DestroySwapchain()
}

// Window is the windowing collaborator: it knows which instance extensions
// its surfaces need and how to create one.
type Window interface {
	RequiredInstanceExtensions() []string
	CreateSurface(instance InstanceDriver) (SurfaceDriver, error)
	// DrawableSize is the extent used when the surface leaves sizing to the
	// swapchain. A zero extent falls back to the configured size.
	DrawableSize() negotiate.Extent2D
}
