package bootstrap_test

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/bootstrap/bootstrap"
	"github.com/vkngwrapper/bootstrap/negotiate"
)

type recorder struct {
	events []string
}

func (r *recorder) record(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

type fakePhysical struct {
	properties bootstrap.DeviceProperties
	families   []negotiate.QueueFamilyProperties
	extensions []string
	caps       *negotiate.Capabilities
	present    map[int]bool
}

type fakeGlobal struct {
	rec        *recorder
	extensions []string
	layers     []string
	instance   *fakeInstance
	createErr  error

	created *bootstrap.InstanceCreateInfo
}

func set(names []string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, name := range names {
		out[name] = struct{}{}
	}
	return out
}

func (g *fakeGlobal) AvailableExtensions() (map[string]struct{}, error) {
	return set(g.extensions), nil
}

func (g *fakeGlobal) AvailableLayers() (map[string]struct{}, error) {
	return set(g.layers), nil
}

func (g *fakeGlobal) CreateInstance(info bootstrap.InstanceCreateInfo) (bootstrap.InstanceDriver, error) {
	g.created = &info
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.rec.record("create instance")
	return g.instance, nil
}

type fakeInstance struct {
	rec          *recorder
	devices      []fakePhysical
	createErr    error
	messengerErr error
	device       *fakeDevice

	sink    bootstrap.DebugSink
	created *bootstrap.DeviceCreateInfo
}

func (i *fakeInstance) physical(idx int) (fakePhysical, error) {
	if idx < 0 || idx >= len(i.devices) {
		return fakePhysical{}, errors.Newf("device %d out of range", idx)
	}
	return i.devices[idx], nil
}

func (i *fakeInstance) EnumeratePhysicalDevices() (int, error) {
	return len(i.devices), nil
}

func (i *fakeInstance) GetPhysicalDeviceProperties(idx int) (*bootstrap.DeviceProperties, error) {
	d, err := i.physical(idx)
	if err != nil {
		return nil, err
	}
	return &d.properties, nil
}

func (i *fakeInstance) GetPhysicalDeviceQueueFamilyProperties(idx int) ([]negotiate.QueueFamilyProperties, error) {
	d, err := i.physical(idx)
	return d.families, err
}

func (i *fakeInstance) EnumerateDeviceExtensionProperties(idx int) (map[string]struct{}, error) {
	d, err := i.physical(idx)
	return set(d.extensions), err
}

func (i *fakeInstance) CreateDebugMessenger(sink bootstrap.DebugSink) (bootstrap.Messenger, error) {
	if i.messengerErr != nil {
		return nil, i.messengerErr
	}
	i.sink = sink
	i.rec.record("create messenger")
	return fakeMessenger{rec: i.rec}, nil
}

func (i *fakeInstance) CreateDevice(idx int, info bootstrap.DeviceCreateInfo) (bootstrap.DeviceDriver, error) {
	i.created = &info
	i.rec.record("create device %d", idx)
	if i.createErr != nil {
		return nil, i.createErr
	}
	return i.device, nil
}

func (i *fakeInstance) DestroyInstance() {
	i.rec.record("destroy instance")
}

type fakeMessenger struct {
	rec *recorder
}

func (m fakeMessenger) DestroyDebugMessenger() {
	m.rec.record("destroy messenger")
}

type fakeSurface struct {
	rec      *recorder
	instance *fakeInstance
}

func (s *fakeSurface) GetSurfaceCapabilities(idx int) (*negotiate.Capabilities, error) {
	d, err := s.instance.physical(idx)
	if err != nil {
		return nil, err
	}
	return d.caps, nil
}

func (s *fakeSurface) GetSurfaceSupport(idx, family int) (bool, error) {
	d, err := s.instance.physical(idx)
	return d.present[family], err
}

func (s *fakeSurface) DestroySurface() {
	s.rec.record("destroy surface")
}

type fakeDevice struct {
	rec          *recorder
	swapchainErr error
	imageCount   int

	created *bootstrap.SwapchainCreateInfo
}

func (d *fakeDevice) GetQueue(family, index int) bootstrap.Queue {
	d.rec.record("get queue %d/%d", family, index)
	return fmt.Sprintf("queue-%d-%d", family, index)
}

func (d *fakeDevice) CreateSwapchain(info bootstrap.SwapchainCreateInfo) (bootstrap.SwapchainDriver, error) {
	d.created = &info
	d.rec.record("create swapchain")
	if d.swapchainErr != nil {
		return nil, d.swapchainErr
	}
	return &fakeSwapchain{rec: d.rec, images: d.imageCount}, nil
}

func (d *fakeDevice) DestroyDevice() {
	d.rec.record("destroy device")
}

type fakeSwapchain struct {
	rec    *recorder
	images int
}

func (s *fakeSwapchain) GetSwapchainImages() ([]bootstrap.Image, error) {
	images := make([]bootstrap.Image, s.images)
	for i := range images {
		images[i] = i
	}
	return images, nil
}

func (s *fakeSwapchain) DestroySwapchain() {
	s.rec.record("destroy swapchain")
}

type fakeWindow struct {
	rec        *recorder
	extensions []string
	size       negotiate.Extent2D
	surfaceErr error
	surface    *fakeSurface
}

func (w *fakeWindow) RequiredInstanceExtensions() []string {
	return w.extensions
}

func (w *fakeWindow) CreateSurface(instance bootstrap.InstanceDriver) (bootstrap.SurfaceDriver, error) {
	if w.surfaceErr != nil {
		return nil, w.surfaceErr
	}
	w.rec.record("create surface")
	w.surface = &fakeSurface{rec: w.rec, instance: instance.(*fakeInstance)}
	return w.surface, nil
}

func (w *fakeWindow) DrawableSize() negotiate.Extent2D {
	return w.size
}

func graphicsFamily() negotiate.QueueFamilyProperties {
	return negotiate.QueueFamilyProperties{Flags: negotiate.QueueGraphics | negotiate.QueueTransfer, QueueCount: 1}
}

func presentOnlyFamily() negotiate.QueueFamilyProperties {
	return negotiate.QueueFamilyProperties{Flags: negotiate.QueueTransfer, QueueCount: 1}
}

func capabilities() *negotiate.Capabilities {
	return &negotiate.Capabilities{
		MinImageCount:    2,
		MaxImageCount:    4,
		CurrentExtent:    negotiate.Extent2D{Width: negotiate.ExtentUndefined, Height: negotiate.ExtentUndefined},
		MinImageExtent:   negotiate.Extent2D{Width: 200, Height: 200},
		MaxImageExtent:   negotiate.Extent2D{Width: 1000, Height: 1000},
		CurrentTransform: negotiate.TransformIdentity,
		Formats: []negotiate.SurfaceFormat{
			{Format: negotiate.FormatB8G8R8A8UNorm, ColorSpace: negotiate.ColorSpaceSRGBNonlinear},
			{Format: negotiate.FormatR8G8B8A8UNorm, ColorSpace: negotiate.ColorSpaceSRGBNonlinear},
		},
		PresentModes: []negotiate.PresentMode{negotiate.PresentModeFIFO, negotiate.PresentModeMailbox},
	}
}

func gpu(name string) fakePhysical {
	return fakePhysical{
		properties: bootstrap.DeviceProperties{Name: name, Type: "DiscreteGPU"},
		families:   []negotiate.QueueFamilyProperties{graphicsFamily()},
		extensions: []string{"VK_KHR_swapchain"},
		caps:       capabilities(),
	}
}

type harness struct {
	rec      *recorder
	global   *fakeGlobal
	instance *fakeInstance
	device   *fakeDevice
	window   *fakeWindow
}

func newHarness(devices ...fakePhysical) *harness {
	rec := &recorder{}
	device := &fakeDevice{rec: rec, imageCount: 3}
	instance := &fakeInstance{rec: rec, devices: devices, device: device}
	return &harness{
		rec:    rec,
		device: device,
		global: &fakeGlobal{
			rec:        rec,
			extensions: []string{"VK_KHR_surface", "VK_KHR_xlib_surface", bootstrap.ExtensionDebugUtils},
			layers:     []string{"VK_LAYER_KHRONOS_validation"},
			instance:   instance,
		},
		instance: instance,
		window: &fakeWindow{
			rec:        rec,
			extensions: []string{"VK_KHR_surface", "VK_KHR_xlib_surface"},
		},
	}
}
