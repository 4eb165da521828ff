package main

import (
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/bootstrap/bootstrap"
	"github.com/vkngwrapper/bootstrap/config"
	"github.com/vkngwrapper/bootstrap/negotiate"
	"github.com/vkngwrapper/bootstrap/vkdriver"
)

type Application struct {
	cfg config.Config
	log *logrus.Logger

	window *sdl.Window
	global *vkdriver.Global
	vulkan *bootstrap.Context
}

func (app *Application) Run() error {
	defer app.cleanup()

	err := app.initWindow()
	if err != nil {
		return err
	}

	app.vulkan, err = bootstrap.New(app.global, vkdriver.SDLWindow{Window: app.window}, app.cfg, bootstrap.Options{
		Logger: app.log,
	})
	if err != nil {
		return err
	}

	for _, timing := range app.vulkan.Timings {
		app.log.WithField("elapsed", timing.Elapsed).Debugf("%s stage", timing.Stage)
	}
	app.log.WithField("swapchain", app.vulkan.Swapchain.Parameters.String()).Info("vulkan ready")

	app.mainLoop()
	return nil
}

func (app *Application) initWindow() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return errors.Wrap(err, "init sdl")
	}

	window, err := sdl.CreateWindow(app.cfg.ApplicationName, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, int32(app.cfg.Width), int32(app.cfg.Height), sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN)
	if err != nil {
		return errors.Wrap(err, "create window")
	}
	app.window = window

	app.global, err = vkdriver.NewGlobal(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return err
	}
	app.global.Verbose = app.cfg.Level() >= logrus.DebugLevel

	return nil
}

func (app *Application) mainLoop() {
	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				return
			case *sdl.KeyboardEvent:
				if e.Keysym.Sym == sdl.K_ESCAPE {
					return
				}
			}
		}
		sdl.Delay(16)
	}
}

func (app *Application) cleanup() {
	if app.vulkan != nil {
		app.vulkan.Destroy()
	}

	if app.window != nil {
		app.window.Destroy()
	}
	sdl.Quit()
}

func report(log *logrus.Logger, err error) {
	entry := log.WithError(err)
	if stage, ok := negotiate.StageOf(err); ok {
		entry = entry.WithField("stage", string(stage))
	}

	var noDevice *negotiate.NoSuitableDeviceError
	if errors.As(err, &noDevice) {
		for _, rejection := range noDevice.Rejections {
			entry.WithField("device", rejection.Device).Warn(rejection.Reason)
		}
	}

	if hint := errors.FlattenHints(err); hint != "" {
		entry = entry.WithField("hint", hint)
	}
	log.Debugf("%+v", err)
	entry.Error("vulkan bootstrap failed")
}

func main() {
	runtime.LockOSThread()

	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load configuration")
	}

	err = cfg.ProcessCommandLineArgs(os.Args[1:])
	if errors.Is(err, config.ErrHelp) {
		return
	}
	if err != nil {
		log.WithError(err).WithField("hint", errors.FlattenHints(err)).Fatal("parse arguments")
	}
	log.SetLevel(cfg.Level())

	app := &Application{cfg: cfg, log: log}
	if err := app.Run(); err != nil {
		report(log, err)
		os.Exit(1)
	}
}
