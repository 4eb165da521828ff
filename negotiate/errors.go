package negotiate

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Stage names a step of the bootstrap pipeline. Errors carry the stage they
// came from so a single diagnostic line can say where startup stopped.
type Stage string

const (
	StageInstance       Stage = "instance"
	StageDebugMessenger Stage = "debug messenger"
	StageSurface        Stage = "surface"
	StagePhysicalDevice Stage = "physical device"
	StageLogicalDevice  Stage = "logical device"
	StageSwapchain      Stage = "swapchain"
)

var (
	ErrIncompleteQueueFamilies = errors.New("queue family indices are incomplete")
	ErrInadequateCapabilities  = errors.New("surface reports no formats or no present modes")
	ErrFormatNotSupported      = errors.New("chosen surface format is not in the supported set")
)

// ConfigurationError reports a startup request the host cannot honour, such as
// validation layers that are not installed.
type ConfigurationError struct {
	// Kind is what was missing: "layer" or "instance extension".
	Kind    string
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("requested %s not available: %s", e.Kind, strings.Join(e.Missing, ", "))
}

// Rejection records why one physical device was passed over.
type Rejection struct {
	Device int
	Reason string
	Err    error
}

func (r Rejection) String() string {
	if r.Err != nil {
		return fmt.Sprintf("device %d: %s: %v", r.Device, r.Reason, r.Err)
	}
	return fmt.Sprintf("device %d: %s", r.Device, r.Reason)
}

// NoSuitableDeviceError is returned when enumeration finished without finding
// a usable physical device.
type NoSuitableDeviceError struct {
	DeviceCount int
	Rejections  []Rejection
}

// NoDevices distinguishes "no GPU present" from "no GPU meets requirements".
func (e *NoSuitableDeviceError) NoDevices() bool {
	return e.DeviceCount == 0
}

func (e *NoSuitableDeviceError) Error() string {
	if e.NoDevices() {
		return "failed to find GPUs with Vulkan support"
	}

	reasons := make([]string, 0, len(e.Rejections))
	for _, r := range e.Rejections {
		reasons = append(reasons, r.String())
	}
	return fmt.Sprintf("failed to find a suitable GPU among %d: %s", e.DeviceCount, strings.Join(reasons, "; "))
}

// DriverRejectionError wraps a creation call the driver refused.
type DriverRejectionError struct {
	Stage Stage
	Cause error
}

func (e *DriverRejectionError) Error() string {
	return fmt.Sprintf("driver rejected %s creation: %v", e.Stage, e.Cause)
}

func (e *DriverRejectionError) Unwrap() error {
	return e.Cause
}

// Rejected wraps err as a DriverRejectionError for stage, keeping a stack
// trace at the call site. An err that already carries a rejection is returned
// as is.
func Rejected(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	var existing *DriverRejectionError
	if errors.As(err, &existing) {
		return err
	}
	return errors.WithStack(&DriverRejectionError{Stage: stage, Cause: err})
}

// StageOf returns the stage recorded on err, if any.
func StageOf(err error) (Stage, bool) {
	var rejection *DriverRejectionError
	if errors.As(err, &rejection) {
		return rejection.Stage, true
	}

	var config *ConfigurationError
	if errors.As(err, &config) {
		return StageInstance, true
	}

	var selection *NoSuitableDeviceError
	if errors.As(err, &selection) {
		return StagePhysicalDevice, true
	}

	return "", false
}
