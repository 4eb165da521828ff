package bootstrap

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/bootstrap/config"
	"github.com/vkngwrapper/bootstrap/negotiate"
)

const queuePriority = float32(1.0)

// PhysicalDevice is the selected GPU. Only its enumeration index is kept; the
// driver re-derives the device from the instance whenever it is queried.
type PhysicalDevice struct {
	Index      int
	Properties *DeviceProperties
	Families   negotiate.QueueFamilyIndices
}

// PickPhysicalDevice selects the first device that can present to surface
// and supports cfg.DeviceExtensions.
func PickPhysicalDevice(instance InstanceDriver, surface SurfaceDriver, cfg config.Config, log logrus.FieldLogger) (*PhysicalDevice, error) {
	count, err := instance.EnumeratePhysicalDevices()
	if err != nil {
		return nil, errors.Wrap(err, "enumerate physical devices")
	}

	inspect := inspector{instance: instance, surface: surface}
	req := negotiate.Requirements{DeviceExtensions: cfg.DeviceExtensions}
	if cfg.ExplicitPresentQuery {
		req.ResolveQueues = negotiate.ExplicitPresentSupport(inspect)
	}

	selection, err := negotiate.SelectPhysicalDevice(inspect, count, req)
	if err != nil {
		var noDevice *negotiate.NoSuitableDeviceError
		if errors.As(err, &noDevice) {
			for _, rejection := range noDevice.Rejections {
				log.WithFields(logrus.Fields{
					"device": rejection.Device,
					"reason": rejection.Reason,
				}).Debug("physical device rejected")
			}
		}
		return nil, err
	}

	properties, err := instance.GetPhysicalDeviceProperties(selection.Index)
	if err != nil {
		return nil, errors.Wrapf(err, "query properties of device %d", selection.Index)
	}

	log.WithFields(logrus.Fields{
		"device":        selection.Index,
		"name":          properties.Name,
		"type":          properties.Type,
		"pipelineCache": properties.PipelineCacheUUID.String(),
		"graphics":      selection.Families.Graphics,
		"present":       selection.Families.Present,
	}).Info("physical device selected")

	return &PhysicalDevice{
		Index:      selection.Index,
		Properties: properties,
		Families:   selection.Families,
	}, nil
}

// LogicalDevice is the created device and its two queues. GraphicsQueue and
// PresentQueue are the same handle when both roles share a family.
type LogicalDevice struct {
	Driver        DeviceDriver
	GraphicsQueue Queue
	PresentQueue  Queue
	Families      negotiate.QueueFamilyIndices
	Extensions    []string
}

func (d *LogicalDevice) Destroy() {
	if d.Driver != nil {
		d.Driver.DestroyDevice()
		d.Driver = nil
	}
}

// DeviceCreateInfoFor builds the device request: one queue per distinct family
// at full priority and the required extensions, plus the portability subset
// when the device advertises it.
func DeviceCreateInfoFor(families negotiate.QueueFamilyIndices, required []string, available map[string]struct{}) DeviceCreateInfo {
	var info DeviceCreateInfo
	for _, family := range families.Distinct() {
		info.QueueCreateInfos = append(info.QueueCreateInfos, DeviceQueueCreateInfo{
			QueueFamilyIndex: family,
			QueuePriorities:  []float32{queuePriority},
		})
	}

	info.EnabledExtensionNames = append(info.EnabledExtensionNames, required...)
	if _, ok := available[ExtensionPortabilitySubset]; ok {
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, ExtensionPortabilitySubset)
	}

	return info
}

// CreateLogicalDevice creates the device for physical and fetches queue 0 of
// the graphics and present families.
func CreateLogicalDevice(instance InstanceDriver, physical *PhysicalDevice, required []string, log logrus.FieldLogger) (*LogicalDevice, error) {
	if !physical.Families.IsComplete() {
		return nil, errors.Wrapf(negotiate.ErrIncompleteQueueFamilies, "device %d", physical.Index)
	}

	available, err := instance.EnumerateDeviceExtensionProperties(physical.Index)
	if err != nil {
		return nil, errors.Wrapf(err, "enumerate extensions of device %d", physical.Index)
	}

	info := DeviceCreateInfoFor(physical.Families, required, available)
	driver, err := instance.CreateDevice(physical.Index, info)
	if err != nil {
		return nil, negotiate.Rejected(negotiate.StageLogicalDevice, err)
	}

	device := &LogicalDevice{
		Driver:     driver,
		Families:   physical.Families,
		Extensions: info.EnabledExtensionNames,
	}
	device.GraphicsQueue = driver.GetQueue(physical.Families.Graphics, 0)
	if physical.Families.Present == physical.Families.Graphics {
		device.PresentQueue = device.GraphicsQueue
	} else {
		device.PresentQueue = driver.GetQueue(physical.Families.Present, 0)
	}

	log.WithFields(logrus.Fields{
		"queueFamilies": physical.Families.Distinct(),
		"extensions":    info.EnabledExtensionNames,
	}).Info("logical device created")

	return device, nil
}
