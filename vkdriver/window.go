package vkdriver

import (
	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/bootstrap/bootstrap"
	"github.com/vkngwrapper/bootstrap/negotiate"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"
)

// SDLWindow adapts an SDL window created with sdl.WINDOW_VULKAN.
type SDLWindow struct {
	Window *sdl.Window
}

func (w SDLWindow) RequiredInstanceExtensions() []string {
	return w.Window.VulkanGetInstanceExtensions()
}

func (w SDLWindow) CreateSurface(instance bootstrap.InstanceDriver) (bootstrap.SurfaceDriver, error) {
	vkInstance, ok := instance.(*Instance)
	if !ok {
		return nil, errors.Newf("instance %T was not created by vkdriver", instance)
	}

	ext, err := vkInstance.surfaceExtension()
	if err != nil {
		return nil, err
	}

	handle, err := vkng_sdl2.CreateSurface(vkInstance.driver.Instance(), ext, w.Window)
	if err != nil {
		return nil, err
	}
	return &Surface{instance: vkInstance, handle: handle}, nil
}

func (w SDLWindow) DrawableSize() negotiate.Extent2D {
	width, height := w.Window.VulkanGetDrawableSize()
	return negotiate.Extent2D{Width: int(width), Height: int(height)}
}
