// Package negotiate holds the driver-independent half of Vulkan bootstrap:
// the capability model a device and surface report, the checks that decide
// whether a physical device is usable, and the choice of swapchain
// parameters. Nothing here calls into a driver; queries go through the
// DeviceInspector interface so the whole pipeline can be exercised without a GPU.
package negotiate

import "fmt"

// Format mirrors VkFormat. Only the values the negotiator cares about are named.
type Format int32

const (
	FormatUndefined         Format = 0
	FormatR8G8B8A8UNorm     Format = 37
	FormatR8G8B8A8SRGB      Format = 43
	FormatB8G8R8A8UNorm     Format = 44
	FormatB8G8R8A8SRGB      Format = 50
	FormatA2B10G10R10UNorm  Format = 64
	FormatR16G16B16A16Float Format = 97
)

var formatNames = map[Format]string{
	FormatUndefined:         "UNDEFINED",
	FormatR8G8B8A8UNorm:     "R8G8B8A8_UNORM",
	FormatR8G8B8A8SRGB:      "R8G8B8A8_SRGB",
	FormatB8G8R8A8UNorm:     "B8G8R8A8_UNORM",
	FormatB8G8R8A8SRGB:      "B8G8R8A8_SRGB",
	FormatA2B10G10R10UNorm:  "A2B10G10R10_UNORM_PACK32",
	FormatR16G16B16A16Float: "R16G16B16A16_SFLOAT",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int32(f))
}

// ColorSpace mirrors VkColorSpaceKHR.
type ColorSpace int32

const (
	ColorSpaceSRGBNonlinear      ColorSpace = 0
	ColorSpaceExtendedSRGBLinear ColorSpace = 1000104002
	ColorSpaceHDR10ST2084        ColorSpace = 1000104008
)

func (c ColorSpace) String() string {
	switch c {
	case ColorSpaceSRGBNonlinear:
		return "SRGB_NONLINEAR"
	case ColorSpaceExtendedSRGBLinear:
		return "EXTENDED_SRGB_LINEAR"
	case ColorSpaceHDR10ST2084:
		return "HDR10_ST2084"
	}
	return fmt.Sprintf("ColorSpace(%d)", int32(c))
}

// SurfaceFormat is a (format, color space) pair a surface can present.
type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

func (f SurfaceFormat) String() string {
	return fmt.Sprintf("%s/%s", f.Format, f.ColorSpace)
}

// PresentMode mirrors VkPresentModeKHR.
type PresentMode int32

const (
	PresentModeImmediate   PresentMode = 0
	PresentModeMailbox     PresentMode = 1
	PresentModeFIFO        PresentMode = 2
	PresentModeFIFORelaxed PresentMode = 3
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeImmediate:
		return "Immediate"
	case PresentModeMailbox:
		return "Mailbox"
	case PresentModeFIFO:
		return "FIFO"
	case PresentModeFIFORelaxed:
		return "FIFORelaxed"
	}
	return fmt.Sprintf("PresentMode(%d)", int32(m))
}

// QueueFlags mirrors VkQueueFlags.
type QueueFlags int32

const (
	QueueGraphics      QueueFlags = 0x1
	QueueCompute       QueueFlags = 0x2
	QueueTransfer      QueueFlags = 0x4
	QueueSparseBinding QueueFlags = 0x8
)

// QueueFamilyProperties describes one queue family of a physical device.
type QueueFamilyProperties struct {
	Flags      QueueFlags
	QueueCount int
}

// SurfaceTransform mirrors VkSurfaceTransformFlagsKHR.
type SurfaceTransform int32

const (
	TransformIdentity  SurfaceTransform = 0x1
	TransformRotate90  SurfaceTransform = 0x2
	TransformRotate180 SurfaceTransform = 0x4
	TransformRotate270 SurfaceTransform = 0x8
)

// SharingMode mirrors VkSharingMode.
type SharingMode int32

const (
	SharingModeExclusive  SharingMode = 0
	SharingModeConcurrent SharingMode = 1
)

func (m SharingMode) String() string {
	if m == SharingModeConcurrent {
		return "Concurrent"
	}
	return "Exclusive"
}

// ExtentUndefined is the width/height a surface reports when it lets the
// swapchain decide its own size.
const ExtentUndefined = -1

const extentUndefinedUint32 int64 = 0xFFFFFFFF

// Extent2D is a width/height pair in pixels.
type Extent2D struct {
	Width  int
	Height int
}

// Defined reports whether the extent carries a real size rather than the
// "undefined" sentinel. Drivers report the sentinel as 0xFFFFFFFF; bindings
// that convert through int32 see -1.
func (e Extent2D) Defined() bool {
	return e.Width != ExtentUndefined && int64(e.Width) != extentUndefinedUint32 &&
		e.Height != ExtentUndefined && int64(e.Height) != extentUndefinedUint32
}

func (e Extent2D) String() string {
	if !e.Defined() {
		return "undefined"
	}
	return fmt.Sprintf("%dx%d", e.Width, e.Height)
}

// Capabilities is a snapshot of what a physical device and a surface jointly
// support.
type Capabilities struct {
	MinImageCount int
	// MaxImageCount is 0 when the surface imposes no upper bound.
	MaxImageCount int

	CurrentExtent  Extent2D
	MinImageExtent Extent2D
	MaxImageExtent Extent2D

	SupportedTransforms SurfaceTransform
	CurrentTransform    SurfaceTransform

	Formats      []SurfaceFormat
	PresentModes []PresentMode
}

// Adequate reports whether a swapchain can be built against these
// capabilities at all.
func (c *Capabilities) Adequate() bool {
	return c != nil && len(c.Formats) > 0 && len(c.PresentModes) > 0
}

// HasFormat reports whether the exact pair is in the supported set.
func (c *Capabilities) HasFormat(format SurfaceFormat) bool {
	for _, f := range c.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// HasPresentMode reports whether mode is in the supported set.
func (c *Capabilities) HasPresentMode(mode PresentMode) bool {
	for _, m := range c.PresentModes {
		if m == mode {
			return true
		}
	}
	return false
}
