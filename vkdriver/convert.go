package vkdriver

import (
	"github.com/vkngwrapper/bootstrap/bootstrap"
	"github.com/vkngwrapper/bootstrap/negotiate"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

func version(v bootstrap.Version) common.Version {
	return common.CreateVersion(uint32(v.Major), uint32(v.Minor), uint32(v.Patch))
}

func apiVersion(v bootstrap.Version) common.APIVersion {
	return common.APIVersion(version(v))
}

func extent(e core1_0.Extent2D) negotiate.Extent2D {
	return negotiate.Extent2D{Width: e.Width, Height: e.Height}
}

func queueFamilies(families []*core1_0.QueueFamilyProperties) []negotiate.QueueFamilyProperties {
	out := make([]negotiate.QueueFamilyProperties, 0, len(families))
	for _, family := range families {
		out = append(out, negotiate.QueueFamilyProperties{
			Flags:      negotiate.QueueFlags(family.QueueFlags),
			QueueCount: family.QueueCount,
		})
	}
	return out
}

func capabilities(caps *khr_surface.SurfaceCapabilities, formats []khr_surface.SurfaceFormat, modes []khr_surface.PresentMode) *negotiate.Capabilities {
	out := &negotiate.Capabilities{
		MinImageCount:       caps.MinImageCount,
		MaxImageCount:       caps.MaxImageCount,
		CurrentExtent:       extent(caps.CurrentExtent),
		MinImageExtent:      extent(caps.MinImageExtent),
		MaxImageExtent:      extent(caps.MaxImageExtent),
		SupportedTransforms: negotiate.SurfaceTransform(caps.SupportedTransforms),
		CurrentTransform:    negotiate.SurfaceTransform(caps.CurrentTransform),
	}

	for _, format := range formats {
		out.Formats = append(out.Formats, negotiate.SurfaceFormat{
			Format:     negotiate.Format(format.Format),
			ColorSpace: negotiate.ColorSpace(format.ColorSpace),
		})
	}

	for _, mode := range modes {
		out.PresentModes = append(out.PresentModes, negotiate.PresentMode(mode))
	}

	return out
}

func sharingMode(mode negotiate.SharingMode) core1_0.SharingMode {
	if mode == negotiate.SharingModeConcurrent {
		return core1_0.SharingModeConcurrent
	}
	return core1_0.SharingModeExclusive
}

func debugMessage(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bootstrap.DebugMessage {
	msg := bootstrap.DebugMessage{
		Severity: bootstrap.DebugSeverity(severity),
		Type:     msgType.String(),
	}
	if data != nil {
		msg.Message = data.Message
	}
	return msg
}
