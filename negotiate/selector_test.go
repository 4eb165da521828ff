package negotiate_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/bootstrap/negotiate"
)

var requirements = negotiate.Requirements{DeviceExtensions: []string{swapchainExtension}}

func TestProbeSkipsCapabilitiesWithoutExtensions(t *testing.T) {
	device := suitableDevice()
	device.extensions = []string{"VK_KHR_maintenance1"}
	inspector := newFakeInspector(device)

	result, err := negotiate.Probe(inspector, 0, []string{swapchainExtension})
	require.NoError(t, err)
	assert.False(t, result.ExtensionsSupported)
	assert.Equal(t, []string{swapchainExtension}, result.MissingExtensions)
	assert.Nil(t, result.Capabilities)
	assert.Zero(t, inspector.capsCalls[0])
}

func TestProbeReturnsCapabilities(t *testing.T) {
	inspector := newFakeInspector(suitableDevice())

	result, err := negotiate.Probe(inspector, 0, []string{swapchainExtension})
	require.NoError(t, err)
	assert.True(t, result.ExtensionsSupported)
	assert.Empty(t, result.MissingExtensions)
	require.NotNil(t, result.Capabilities)
	assert.True(t, result.Capabilities.Adequate())
}

func TestMissingExtensionsSorted(t *testing.T) {
	available := map[string]struct{}{"b": {}}
	assert.Equal(t, []string{"a", "c"}, negotiate.MissingExtensions(available, []string{"c", "b", "a"}))
	assert.Empty(t, negotiate.MissingExtensions(available, nil))
}

func TestSelectPhysicalDeviceFirstMatch(t *testing.T) {
	noGraphics := suitableDevice()
	noGraphics.families = []negotiate.QueueFamilyProperties{transferFamily()}

	noFormats := suitableDevice()
	noFormats.caps = adequateCaps()
	noFormats.caps.Formats = nil

	second := suitableDevice()
	second.families = []negotiate.QueueFamilyProperties{transferFamily(), graphicsFamily()}

	inspector := newFakeInspector(noGraphics, noFormats, second, suitableDevice())

	selection, err := negotiate.SelectPhysicalDevice(inspector, len(inspector.devices), requirements)
	require.NoError(t, err)
	assert.Equal(t, 2, selection.Index)
	assert.Equal(t, negotiate.QueueFamilyIndices{Graphics: 1, Present: 1}, selection.Families)
	assert.Same(t, second.caps, selection.Capabilities)
}

func TestSelectPhysicalDeviceAllSuitable(t *testing.T) {
	for count := 1; count <= 4; count++ {
		devices := make([]fakeDevice, count)
		for i := range devices {
			devices[i] = suitableDevice()
		}

		selection, err := negotiate.SelectPhysicalDevice(newFakeInspector(devices...), count, requirements)
		require.NoError(t, err)
		assert.Equal(t, 0, selection.Index)
	}
}

func TestSelectPhysicalDeviceNoDevices(t *testing.T) {
	selection, err := negotiate.SelectPhysicalDevice(newFakeInspector(), 0, requirements)
	require.Error(t, err)
	assert.Equal(t, negotiate.NotFound, selection.Index)

	var noDevice *negotiate.NoSuitableDeviceError
	require.True(t, errors.As(err, &noDevice))
	assert.True(t, noDevice.NoDevices())
	assert.Empty(t, noDevice.Rejections)
	assert.EqualError(t, noDevice, "failed to find GPUs with Vulkan support")
}

func TestSelectPhysicalDeviceNoneSuitable(t *testing.T) {
	noGraphics := suitableDevice()
	noGraphics.families = []negotiate.QueueFamilyProperties{transferFamily()}

	noPresentModes := suitableDevice()
	noPresentModes.caps = adequateCaps()
	noPresentModes.caps.PresentModes = nil

	brokenQuery := suitableDevice()
	brokenQuery.familiesErr = errors.New("device lost")

	inspector := newFakeInspector(noGraphics, noPresentModes, brokenQuery)

	selection, err := negotiate.SelectPhysicalDevice(inspector, 3, requirements)
	require.Error(t, err)
	assert.Equal(t, negotiate.NotFound, selection.Index)

	var noDevice *negotiate.NoSuitableDeviceError
	require.True(t, errors.As(err, &noDevice))
	assert.False(t, noDevice.NoDevices())
	require.Len(t, noDevice.Rejections, 3)
	assert.Equal(t, "no graphics or present queue family", noDevice.Rejections[0].Reason)
	assert.Equal(t, "surface offers no present modes", noDevice.Rejections[1].Reason)
	assert.Equal(t, "queue family query failed", noDevice.Rejections[2].Reason)
	assert.ErrorContains(t, noDevice.Rejections[2].Err, "device lost")

	stage, ok := negotiate.StageOf(err)
	require.True(t, ok)
	assert.Equal(t, negotiate.StagePhysicalDevice, stage)
}

func TestSelectPhysicalDeviceMissingSwapchainExtension(t *testing.T) {
	devices := make([]fakeDevice, 3)
	for i := range devices {
		devices[i] = suitableDevice()
		devices[i].extensions = nil
	}
	inspector := newFakeInspector(devices...)

	_, err := negotiate.SelectPhysicalDevice(inspector, len(devices), requirements)

	var noDevice *negotiate.NoSuitableDeviceError
	require.True(t, errors.As(err, &noDevice))
	require.Len(t, noDevice.Rejections, 3)
	for i, rejection := range noDevice.Rejections {
		assert.Equal(t, i, rejection.Device)
		assert.Equal(t, "missing device extensions VK_KHR_swapchain", rejection.Reason)
		assert.Zero(t, inspector.capsCalls[i])
	}
}

func TestSelectPhysicalDeviceExplicitPresent(t *testing.T) {
	device := suitableDevice()
	device.families = []negotiate.QueueFamilyProperties{graphicsFamily(), transferFamily()}
	device.present = map[int]bool{1: true}
	inspector := newFakeInspector(device)

	selection, err := negotiate.SelectPhysicalDevice(inspector, 1, negotiate.Requirements{
		DeviceExtensions: []string{swapchainExtension},
		ResolveQueues:    negotiate.ExplicitPresentSupport(inspector),
	})
	require.NoError(t, err)
	assert.Equal(t, negotiate.QueueFamilyIndices{Graphics: 0, Present: 1}, selection.Families)
}
