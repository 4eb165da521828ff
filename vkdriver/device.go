package vkdriver

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/bootstrap/bootstrap"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// Device is a created logical device.
type Device struct {
	driver       core1_0.CoreDeviceDriver
	swapchainKHR khr_swapchain.ExtensionDriver
}

func (d *Device) GetQueue(family, index int) bootstrap.Queue {
	return d.driver.GetQueue(family, index)
}

func swapchainCreateInfo(surface *Surface, info bootstrap.SwapchainCreateInfo) khr_swapchain.SwapchainCreateInfo {
	params := info.Parameters
	return khr_swapchain.SwapchainCreateInfo{
		Surface: surface.handle,

		MinImageCount:    params.ImageCount,
		ImageFormat:      core1_0.Format(params.SurfaceFormat.Format),
		ImageColorSpace:  khr_surface.ColorSpace(params.SurfaceFormat.ColorSpace),
		ImageExtent:      core1_0.Extent2D{Width: params.Extent.Width, Height: params.Extent.Height},
		ImageArrayLayers: params.ImageArrayLayers,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   sharingMode(params.SharingMode),
		QueueFamilyIndices: params.QueueFamilyIndices,

		PreTransform:   khr_surface.SurfaceTransformFlags(params.PreTransform),
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    khr_surface.PresentMode(params.PresentMode),
		Clipped:        params.Clipped,
	}
}

func (d *Device) CreateSwapchain(info bootstrap.SwapchainCreateInfo) (bootstrap.SwapchainDriver, error) {
	surface, ok := info.Surface.(*Surface)
	if !ok {
		return nil, errors.Newf("surface %T was not created by vkdriver", info.Surface)
	}

	if d.swapchainKHR == nil {
		d.swapchainKHR = khr_swapchain.CreateExtensionDriverFromCoreDriver(d.driver)
	}
	if d.swapchainKHR == nil {
		return nil, errors.Newf("%s is not enabled on this device", khr_swapchain.ExtensionName)
	}

	handle, _, err := d.swapchainKHR.CreateSwapchain(nil, swapchainCreateInfo(surface, info))
	if err != nil {
		return nil, err
	}
	return &Swapchain{ext: d.swapchainKHR, handle: handle}, nil
}

func (d *Device) DestroyDevice() {
	d.driver.DestroyDevice(nil)
}

// Swapchain is a created swapchain.
type Swapchain struct {
	ext    khr_swapchain.ExtensionDriver
	handle khr_swapchain.Swapchain
}

func (s *Swapchain) GetSwapchainImages() ([]bootstrap.Image, error) {
	images, _, err := s.ext.GetSwapchainImages(s.handle)
	if err != nil {
		return nil, err
	}

	out := make([]bootstrap.Image, 0, len(images))
	for _, image := range images {
		out = append(out, image)
	}
	return out, nil
}

func (s *Swapchain) DestroySwapchain() {
	s.ext.DestroySwapchain(s.handle, nil)
}
