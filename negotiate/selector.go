package negotiate

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Requirements is what a physical device must offer to be selected.
type Requirements struct {
	DeviceExtensions []string
	// ResolveQueues defaults to GraphicsImpliesPresent.
	ResolveQueues QueueResolver
}

// Selection is the outcome of a successful device search.
type Selection struct {
	Index        int
	Families     QueueFamilyIndices
	Capabilities *Capabilities
}

// CheckQueues reports why indices are unusable, or "" if they are complete.
func CheckQueues(indices QueueFamilyIndices) string {
	switch {
	case indices.IsComplete():
		return ""
	case indices.Graphics < 0 && indices.Present < 0:
		return "no graphics or present queue family"
	case indices.Graphics < 0:
		return "no graphics queue family"
	default:
		return "no present queue family"
	}
}

// CheckExtensions reports why a probe failed the extension requirement, or "".
func CheckExtensions(probe ProbeResult) string {
	if probe.ExtensionsSupported {
		return ""
	}
	return fmt.Sprintf("missing device extensions %s", strings.Join(probe.MissingExtensions, ", "))
}

// CheckSwapchainAdequacy reports why caps cannot back a swapchain, or "".
func CheckSwapchainAdequacy(caps *Capabilities) string {
	switch {
	case caps == nil:
		return "no surface capabilities"
	case len(caps.Formats) == 0:
		return "surface offers no formats"
	case len(caps.PresentModes) == 0:
		return "surface offers no present modes"
	}
	return ""
}

// Suitability evaluates one device. The returned Rejection is nil when the
// device is suitable.
func Suitability(inspector DeviceInspector, device int, req Requirements) (Selection, *Rejection) {
	resolve := req.ResolveQueues
	if resolve == nil {
		resolve = GraphicsImpliesPresent
	}

	selection := Selection{Index: device, Families: NewQueueFamilyIndices()}

	families, err := inspector.QueueFamilies(device)
	if err != nil {
		return selection, &Rejection{Device: device, Reason: "queue family query failed", Err: err}
	}

	selection.Families, err = resolve(device, families)
	if err != nil {
		return selection, &Rejection{Device: device, Reason: "queue family resolution failed", Err: err}
	}

	probe, err := Probe(inspector, device, req.DeviceExtensions)
	if err != nil {
		return selection, &Rejection{Device: device, Reason: "capability probe failed", Err: err}
	}
	selection.Capabilities = probe.Capabilities

	var reasons []string
	for _, reason := range []string{
		CheckQueues(selection.Families),
		CheckExtensions(probe),
	} {
		if reason != "" {
			reasons = append(reasons, reason)
		}
	}
	if probe.ExtensionsSupported {
		if reason := CheckSwapchainAdequacy(probe.Capabilities); reason != "" {
			reasons = append(reasons, reason)
		}
	}

	if len(reasons) > 0 {
		return selection, &Rejection{Device: device, Reason: strings.Join(reasons, ", ")}
	}
	return selection, nil
}

// SelectPhysicalDevice walks devices 0..deviceCount-1 in order and returns the
// first suitable one. There is no ranking between suitable devices.
func SelectPhysicalDevice(inspector DeviceInspector, deviceCount int, req Requirements) (Selection, error) {
	failure := &NoSuitableDeviceError{DeviceCount: deviceCount}

	for device := 0; device < deviceCount; device++ {
		selection, rejection := Suitability(inspector, device, req)
		if rejection == nil {
			return selection, nil
		}
		failure.Rejections = append(failure.Rejections, *rejection)
	}

	return Selection{Index: NotFound, Families: NewQueueFamilyIndices()}, errors.WithStack(failure)
}
