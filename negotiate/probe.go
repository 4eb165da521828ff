package negotiate

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// DeviceInspector answers capability queries about physical devices,
// addressed by their enumeration index.
type DeviceInspector interface {
	QueueFamilies(device int) ([]QueueFamilyProperties, error)
	Extensions(device int) (map[string]struct{}, error)
	SurfaceCapabilities(device int) (*Capabilities, error)
}

// ProbeResult is what Probe learned about one device.
type ProbeResult struct {
	ExtensionsSupported bool
	MissingExtensions   []string
	// Capabilities is nil when the required extensions are missing.
	Capabilities *Capabilities
}

// MissingExtensions returns the required names absent from available, sorted.
func MissingExtensions(available map[string]struct{}, required []string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := available[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// Probe checks that device supports every required extension and, only if it
// does, takes a snapshot of its surface capabilities. Surface queries are not
// valid on a device without the swapchain extension, so they are skipped.
func Probe(inspector DeviceInspector, device int, required []string) (ProbeResult, error) {
	var result ProbeResult

	available, err := inspector.Extensions(device)
	if err != nil {
		return result, errors.Wrapf(err, "enumerate extensions of device %d", device)
	}

	result.MissingExtensions = MissingExtensions(available, required)
	result.ExtensionsSupported = len(result.MissingExtensions) == 0
	if !result.ExtensionsSupported {
		return result, nil
	}

	result.Capabilities, err = inspector.SurfaceCapabilities(device)
	if err != nil {
		return result, errors.Wrapf(err, "query surface capabilities of device %d", device)
	}

	return result, nil
}
