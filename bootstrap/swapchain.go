package bootstrap

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/bootstrap/negotiate"
)

// Swapchain is the negotiated presentation chain and its images.
type Swapchain struct {
	Driver     SwapchainDriver
	Parameters negotiate.SwapchainParameters
	Images     []Image
}

func (s *Swapchain) Destroy() {
	if s.Driver != nil {
		s.Driver.DestroySwapchain()
		s.Driver = nil
	}
	s.Images = nil
}

// CreateSwapchain queries the surface capabilities of the selected device
// again, negotiates the parameters and creates the swapchain. desired is used
// only when the surface does not dictate its own extent. Creation is not
// retried with relaxed parameters.
func CreateSwapchain(device *LogicalDevice, surface SurfaceDriver, physical *PhysicalDevice, desired negotiate.Extent2D, policy negotiate.FormatPolicy, log logrus.FieldLogger) (*Swapchain, error) {
	caps, err := surface.GetSurfaceCapabilities(physical.Index)
	if err != nil {
		return nil, errors.Wrapf(err, "query surface capabilities of device %d", physical.Index)
	}

	params, err := negotiate.Negotiate(caps, device.Families, desired, policy)
	if err != nil {
		return nil, err
	}

	driver, err := device.Driver.CreateSwapchain(SwapchainCreateInfo{
		Surface:    surface,
		Parameters: params,
	})
	if err != nil {
		return nil, negotiate.Rejected(negotiate.StageSwapchain, err)
	}

	swapchain := &Swapchain{Driver: driver, Parameters: params}
	swapchain.Images, err = driver.GetSwapchainImages()
	if err != nil {
		swapchain.Destroy()
		return nil, errors.Wrap(err, "get swapchain images")
	}

	log.WithFields(logrus.Fields{
		"format":      params.SurfaceFormat.String(),
		"presentMode": params.PresentMode.String(),
		"extent":      params.Extent.String(),
		"minImages":   params.ImageCount,
		"images":      len(swapchain.Images),
		"sharing":     params.SharingMode.String(),
	}).Info("swapchain created")

	return swapchain, nil
}
