package vkdriver

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/bootstrap/negotiate"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

// Surface is a presentation surface created against an Instance.
type Surface struct {
	instance *Instance
	handle   khr_surface.Surface
}

func (s *Surface) GetSurfaceCapabilities(index int) (*negotiate.Capabilities, error) {
	device, err := s.instance.physicalDevice(index)
	if err != nil {
		return nil, err
	}

	ext := s.instance.surfaceKHR
	caps, _, err := ext.GetPhysicalDeviceSurfaceCapabilities(s.handle, device)
	if err != nil {
		return nil, errors.Wrap(err, "surface capabilities")
	}

	formats, _, err := ext.GetPhysicalDeviceSurfaceFormats(s.handle, device)
	if err != nil {
		return nil, errors.Wrap(err, "surface formats")
	}

	modes, _, err := ext.GetPhysicalDeviceSurfacePresentModes(s.handle, device)
	if err != nil {
		return nil, errors.Wrap(err, "surface present modes")
	}

	return capabilities(caps, formats, modes), nil
}

func (s *Surface) GetSurfaceSupport(index, family int) (bool, error) {
	device, err := s.instance.physicalDevice(index)
	if err != nil {
		return false, err
	}

	supported, _, err := s.instance.surfaceKHR.GetPhysicalDeviceSurfaceSupport(s.handle, device, family)
	return supported, err
}

func (s *Surface) DestroySurface() {
	s.instance.surfaceKHR.DestroySurface(s.handle, nil)
}
