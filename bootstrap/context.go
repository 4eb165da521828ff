// Package bootstrap runs the Vulkan startup sequence against an abstract
// driver: instance, surface, physical device, logical device and swapchain.
// Each stage consumes the previous stage's result; the first failure unwinds
// everything created so far in reverse order.
package bootstrap

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/bootstrap/config"
	"github.com/vkngwrapper/bootstrap/negotiate"
)

// StageTiming is how long one stage took.
type StageTiming struct {
	Stage   negotiate.Stage
	Elapsed time.Duration
}

// Options tune New. The zero value is usable.
type Options struct {
	Logger logrus.FieldLogger
	// DebugSink overrides the logging sink registered with validation layers.
	DebugSink DebugSink
	// FormatPolicy overrides negotiate.PreferBGRA8SRGB.
	FormatPolicy negotiate.FormatPolicy
}

// Context holds everything the bootstrap created. Consumers treat it as
// read-only until Destroy.
type Context struct {
	Instance       *Instance
	Surface        SurfaceDriver
	PhysicalDevice *PhysicalDevice
	Device         *LogicalDevice
	Swapchain      *Swapchain
	Timings        []StageTiming

	log      logrus.FieldLogger
	releases []func()
}

func (c *Context) track(release func()) {
	c.releases = append(c.releases, release)
}

// Destroy releases every resource in reverse creation order. It is safe to
// call more than once.
func (c *Context) Destroy() {
	for i := len(c.releases) - 1; i >= 0; i-- {
		c.releases[i]()
	}
	c.releases = nil
}

func (c *Context) stage(stage negotiate.Stage, run func() error) error {
	start := hrtime.Now()
	err := run()
	elapsed := hrtime.Since(start)
	c.Timings = append(c.Timings, StageTiming{Stage: stage, Elapsed: elapsed})

	if err != nil {
		return errors.Wrapf(err, "%s", stage)
	}

	c.log.WithFields(logrus.Fields{
		"stage":   string(stage),
		"elapsed": elapsed,
	}).Info("stage complete")
	return nil
}

// New runs the whole bootstrap. On error nothing is left alive.
func New(global GlobalDriver, window Window, cfg config.Config, opts Options) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration")
	}

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	sink := opts.DebugSink
	if sink == nil {
		sink = LogSink(log)
	}

	ctx := &Context{log: log}
	err := ctx.run(global, window, cfg, sink, opts.FormatPolicy)
	if err != nil {
		ctx.Destroy()
		return nil, err
	}

	return ctx, nil
}

func (c *Context) run(global GlobalDriver, window Window, cfg config.Config, sink DebugSink, policy negotiate.FormatPolicy) error {
	err := c.stage(negotiate.StageInstance, func() error {
		instance, err := CreateInstance(global, cfg, window.RequiredInstanceExtensions(), sink, c.log)
		if err != nil {
			return err
		}
		c.Instance = instance
		c.track(instance.Destroy)
		return nil
	})
	if err != nil {
		return err
	}

	err = c.stage(negotiate.StageSurface, func() error {
		surface, err := window.CreateSurface(c.Instance.Driver)
		if err != nil {
			return errors.Wrap(err, "failed to create window surface")
		}
		c.Surface = surface
		c.track(surface.DestroySurface)
		return nil
	})
	if err != nil {
		return err
	}

	err = c.stage(negotiate.StagePhysicalDevice, func() error {
		physical, err := PickPhysicalDevice(c.Instance.Driver, c.Surface, cfg, c.log)
		if err != nil {
			return err
		}
		c.PhysicalDevice = physical
		return nil
	})
	if err != nil {
		return err
	}

	err = c.stage(negotiate.StageLogicalDevice, func() error {
		device, err := CreateLogicalDevice(c.Instance.Driver, c.PhysicalDevice, cfg.DeviceExtensions, c.log)
		if err != nil {
			return err
		}
		c.Device = device
		c.track(device.Destroy)
		return nil
	})
	if err != nil {
		return err
	}

	return c.stage(negotiate.StageSwapchain, func() error {
		swapchain, err := CreateSwapchain(c.Device, c.Surface, c.PhysicalDevice, desiredExtent(window, cfg), policy, c.log)
		if err != nil {
			return err
		}
		c.Swapchain = swapchain
		c.track(swapchain.Destroy)
		return nil
	})
}

func desiredExtent(window Window, cfg config.Config) negotiate.Extent2D {
	size := window.DrawableSize()
	if size.Width > 0 && size.Height > 0 {
		return size
	}
	return negotiate.Extent2D{Width: cfg.Width, Height: cfg.Height}
}
