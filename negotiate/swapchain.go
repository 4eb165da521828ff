package negotiate

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// FormatPolicy picks one surface format out of a non-empty supported list.
// Any policy is acceptable as long as its answer comes from that list.
type FormatPolicy func(available []SurfaceFormat) SurfaceFormat

// PreferredSurfaceFormat is what PreferBGRA8SRGB looks for first.
var PreferredSurfaceFormat = SurfaceFormat{Format: FormatB8G8R8A8UNorm, ColorSpace: ColorSpaceSRGBNonlinear}

// PreferBGRA8SRGB returns PreferredSurfaceFormat when offered, otherwise the
// first format in enumeration order.
func PreferBGRA8SRGB(available []SurfaceFormat) SurfaceFormat {
	for _, format := range available {
		if format == PreferredSurfaceFormat {
			return format
		}
	}

	return available[0]
}

// ChoosePresentMode prefers Mailbox, then Immediate, and falls back to FIFO,
// which every surface supports.
func ChoosePresentMode(available []PresentMode) PresentMode {
	var immediate bool
	for _, mode := range available {
		if mode == PresentModeMailbox {
			return mode
		}
		if mode == PresentModeImmediate {
			immediate = true
		}
	}

	if immediate {
		return PresentModeImmediate
	}
	return PresentModeFIFO
}

func clamp(value, lo, hi int) int {
	if value > hi {
		value = hi
	}
	if value < lo {
		value = lo
	}
	return value
}

// ChooseExtent uses the surface's current extent when it has one. Otherwise
// desired is clamped component-wise into [MinImageExtent, MaxImageExtent];
// the minimum wins if the bounds are inverted.
func ChooseExtent(caps *Capabilities, desired Extent2D) Extent2D {
	if caps.CurrentExtent.Defined() {
		return caps.CurrentExtent
	}

	return Extent2D{
		Width:  clamp(desired.Width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(desired.Height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// ChooseImageCount asks for one image more than the minimum, capped at the
// maximum when the surface has one.
func ChooseImageCount(caps *Capabilities) int {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

// ChooseSharingMode shares images between both families when they differ.
// The returned family list is nil in exclusive mode.
func ChooseSharingMode(families QueueFamilyIndices) (SharingMode, []int) {
	if families.Graphics != families.Present {
		return SharingModeConcurrent, []int{families.Graphics, families.Present}
	}
	return SharingModeExclusive, nil
}

// SwapchainParameters is a fully negotiated swapchain description. Fields
// after PresentMode are fixed by the bootstrap and recorded for completeness.
type SwapchainParameters struct {
	SurfaceFormat SurfaceFormat
	PresentMode   PresentMode
	Extent        Extent2D
	ImageCount    int

	SharingMode        SharingMode
	QueueFamilyIndices []int

	ImageArrayLayers int
	PreTransform     SurfaceTransform
	Clipped          bool
}

func (p SwapchainParameters) String() string {
	return fmt.Sprintf("%s %s %s x%d %s", p.SurfaceFormat, p.PresentMode, p.Extent, p.ImageCount, p.SharingMode)
}

// Negotiate chooses every swapchain parameter from caps. A nil policy means
// PreferBGRA8SRGB.
func Negotiate(caps *Capabilities, families QueueFamilyIndices, desired Extent2D, policy FormatPolicy) (SwapchainParameters, error) {
	if !caps.Adequate() {
		return SwapchainParameters{}, errors.WithStack(ErrInadequateCapabilities)
	}
	if !families.IsComplete() {
		return SwapchainParameters{}, errors.WithStack(ErrIncompleteQueueFamilies)
	}

	if policy == nil {
		policy = PreferBGRA8SRGB
	}

	format := policy(caps.Formats)
	if !caps.HasFormat(format) {
		return SwapchainParameters{}, errors.Wrapf(ErrFormatNotSupported, "policy chose %s", format)
	}

	sharing, queueFamilies := ChooseSharingMode(families)

	return SwapchainParameters{
		SurfaceFormat:      format,
		PresentMode:        ChoosePresentMode(caps.PresentModes),
		Extent:             ChooseExtent(caps, desired),
		ImageCount:         ChooseImageCount(caps),
		SharingMode:        sharing,
		QueueFamilyIndices: queueFamilies,
		ImageArrayLayers:   1,
		PreTransform:       caps.CurrentTransform,
		Clipped:            true,
	}, nil
}
