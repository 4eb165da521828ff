package negotiate_test

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/bootstrap/negotiate"
)

type fakeDevice struct {
	families   []negotiate.QueueFamilyProperties
	extensions []string
	caps       *negotiate.Capabilities
	present    map[int]bool

	familiesErr error
	capsErr     error
}

type fakeInspector struct {
	devices   []fakeDevice
	capsCalls map[int]int
}

func newFakeInspector(devices ...fakeDevice) *fakeInspector {
	return &fakeInspector{devices: devices, capsCalls: map[int]int{}}
}

func (f *fakeInspector) device(idx int) (fakeDevice, error) {
	if idx < 0 || idx >= len(f.devices) {
		return fakeDevice{}, errors.Newf("no device %d", idx)
	}
	return f.devices[idx], nil
}

func (f *fakeInspector) QueueFamilies(idx int) ([]negotiate.QueueFamilyProperties, error) {
	d, err := f.device(idx)
	if err != nil {
		return nil, err
	}
	return d.families, d.familiesErr
}

func (f *fakeInspector) Extensions(idx int) (map[string]struct{}, error) {
	d, err := f.device(idx)
	if err != nil {
		return nil, err
	}
	out := map[string]struct{}{}
	for _, name := range d.extensions {
		out[name] = struct{}{}
	}
	return out, nil
}

func (f *fakeInspector) SurfaceCapabilities(idx int) (*negotiate.Capabilities, error) {
	f.capsCalls[idx]++
	d, err := f.device(idx)
	if err != nil {
		return nil, err
	}
	return d.caps, d.capsErr
}

func (f *fakeInspector) SurfaceSupport(idx, family int) (bool, error) {
	d, err := f.device(idx)
	if err != nil {
		return false, err
	}
	return d.present[family], nil
}

const swapchainExtension = "VK_KHR_swapchain"

func graphicsFamily() negotiate.QueueFamilyProperties {
	return negotiate.QueueFamilyProperties{Flags: negotiate.QueueGraphics | negotiate.QueueCompute | negotiate.QueueTransfer, QueueCount: 16}
}

func transferFamily() negotiate.QueueFamilyProperties {
	return negotiate.QueueFamilyProperties{Flags: negotiate.QueueTransfer, QueueCount: 2}
}

func adequateCaps() *negotiate.Capabilities {
	return &negotiate.Capabilities{
		MinImageCount:    2,
		MaxImageCount:    4,
		CurrentExtent:    negotiate.Extent2D{Width: 800, Height: 600},
		MinImageExtent:   negotiate.Extent2D{Width: 1, Height: 1},
		MaxImageExtent:   negotiate.Extent2D{Width: 4096, Height: 4096},
		CurrentTransform: negotiate.TransformIdentity,
		Formats: []negotiate.SurfaceFormat{
			{Format: negotiate.FormatB8G8R8A8UNorm, ColorSpace: negotiate.ColorSpaceSRGBNonlinear},
		},
		PresentModes: []negotiate.PresentMode{negotiate.PresentModeFIFO},
	}
}

func suitableDevice() fakeDevice {
	return fakeDevice{
		families:   []negotiate.QueueFamilyProperties{graphicsFamily()},
		extensions: []string{swapchainExtension},
		caps:       adequateCaps(),
	}
}
