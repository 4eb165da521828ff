package bootstrap

import "github.com/vkngwrapper/bootstrap/negotiate"

// inspector answers negotiate's capability queries from a live instance and
// surface.
type inspector struct {
	instance InstanceDriver
	surface  SurfaceDriver
}

func (i inspector) QueueFamilies(device int) ([]negotiate.QueueFamilyProperties, error) {
	return i.instance.GetPhysicalDeviceQueueFamilyProperties(device)
}

func (i inspector) Extensions(device int) (map[string]struct{}, error) {
	return i.instance.EnumerateDeviceExtensionProperties(device)
}

func (i inspector) SurfaceCapabilities(device int) (*negotiate.Capabilities, error) {
	return i.surface.GetSurfaceCapabilities(device)
}

func (i inspector) SurfaceSupport(device, family int) (bool, error) {
	return i.surface.GetSurfaceSupport(device, family)
}
