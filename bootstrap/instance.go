package bootstrap

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/bootstrap/config"
	"github.com/vkngwrapper/bootstrap/negotiate"
)

var (
	applicationVersion = Version{Major: 1}
	engineVersion      = Version{Major: 1}
	apiVersion         = Version{Major: 1, Minor: 2}
)

// Instance owns the instance driver and, when validation is on, the debug
// messenger registered against it. The messenger never outlives the instance.
type Instance struct {
	Driver InstanceDriver

	EnabledExtensions []string
	EnabledLayers     []string

	messenger Messenger
}

// Destroy releases the debug messenger, then the instance.
func (i *Instance) Destroy() {
	if i.messenger != nil {
		i.messenger.DestroyDebugMessenger()
		i.messenger = nil
	}

	if i.Driver != nil {
		i.Driver.DestroyInstance()
		i.Driver = nil
	}
}

// CreateInstance checks that the requested layers and the window's
// extensions are available, creates the instance and registers the debug
// sink when validation is enabled.
func CreateInstance(global GlobalDriver, cfg config.Config, windowExtensions []string, sink DebugSink, log logrus.FieldLogger) (*Instance, error) {
	info := InstanceCreateInfo{
		ApplicationName:    cfg.ApplicationName,
		ApplicationVersion: applicationVersion,
		EngineName:         "No Engine",
		EngineVersion:      engineVersion,
		APIVersion:         apiVersion,
	}

	extensions, err := global.AvailableExtensions()
	if err != nil {
		return nil, errors.Wrap(err, "enumerate instance extensions")
	}

	missing := negotiate.MissingExtensions(extensions, windowExtensions)
	if len(missing) > 0 {
		return nil, errors.WithStack(&negotiate.ConfigurationError{Kind: "instance extension", Missing: missing})
	}
	info.EnabledExtensionNames = append(info.EnabledExtensionNames, windowExtensions...)

	if cfg.EnableValidation {
		layers, err := global.AvailableLayers()
		if err != nil {
			return nil, errors.Wrap(err, "enumerate instance layers")
		}

		missing := negotiate.MissingExtensions(layers, cfg.ValidationLayers)
		if len(missing) > 0 {
			return nil, errors.WithHint(
				errors.WithStack(&negotiate.ConfigurationError{Kind: "layer", Missing: missing}),
				"install the LunarG Vulkan SDK or run with --no-validation")
		}
		info.EnabledLayerNames = append(info.EnabledLayerNames, cfg.ValidationLayers...)

		if _, ok := extensions[ExtensionDebugUtils]; !ok {
			return nil, errors.WithStack(&negotiate.ConfigurationError{Kind: "instance extension", Missing: []string{ExtensionDebugUtils}})
		}
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, ExtensionDebugUtils)
		info.DebugSink = sink
	}

	// Required on MoltenVK, harmless elsewhere.
	if _, ok := extensions[ExtensionPortabilityEnumeration]; ok {
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, ExtensionPortabilityEnumeration)
		info.EnumeratePortability = true
	}

	driver, err := global.CreateInstance(info)
	if err != nil {
		return nil, negotiate.Rejected(negotiate.StageInstance, err)
	}

	instance := &Instance{
		Driver:            driver,
		EnabledExtensions: info.EnabledExtensionNames,
		EnabledLayers:     info.EnabledLayerNames,
	}

	log.WithFields(logrus.Fields{
		"extensions": instance.EnabledExtensions,
		"layers":     instance.EnabledLayers,
	}).Info("instance created")

	if !cfg.EnableValidation {
		return instance, nil
	}

	instance.messenger, err = driver.CreateDebugMessenger(sink)
	if err != nil {
		instance.Destroy()
		return nil, negotiate.Rejected(negotiate.StageDebugMessenger, err)
	}

	return instance, nil
}
