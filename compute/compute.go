/*
Package compute hosts the OpenCL side of the grayscale pipeline: device
acquisition, kernel compilation, buffer management and work dispatch.

All resources created through a Session are only valid for the lifetime of
that Session and must be released in reverse acquisition order. Every
object exposes an idempotent Release/Close so deferred cleanup on an error
path never trips over a handle that was not acquired.
*/
package compute

import (
	"log"

	"github.com/pkg/errors"
	"github.com/robvanmieghem/go-opencl/cl"
)

// Session owns the OpenCL objects that scope a single pipeline run: the
// selected device, its execution context and one in-order command queue.
// Transfers and kernel submissions on the queue execute in submission order.
type Session struct {
	Device  *cl.Device
	context *cl.Context
	queue   *cl.CommandQueue
}

// ListDevices enumerates all devices of the given type across every
// available platform and logs what it finds.
func ListDevices(deviceType cl.DeviceType) ([]*cl.Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		return nil, errors.Wrap(ErrDeviceUnavailable, err.Error())
	}
	devices := make([]*cl.Device, 0, 4)
	for _, platform := range platforms {
		log.Println("Platform", platform.Name())
		platformDevices, err := cl.GetDevices(platform, deviceType)
		if err != nil {
			log.Println(err)
			continue
		}
		log.Println(len(platformDevices), "device(s) found:")
		for i, device := range platformDevices {
			log.Println(i, "-", device.Type(), "-", device.Name())
			devices = append(devices, device)
		}
	}
	return devices, nil
}

// SelectDevice picks the first enumerated device of the requested type.
// There is no fallback to other device types and no further selection
// heuristic.
func SelectDevice(deviceType cl.DeviceType) (*cl.Device, error) {
	devices, err := ListDevices(deviceType)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, ErrDeviceUnavailable
	}
	return devices[0], nil
}

// NewSession creates an execution context and an in-order command queue for
// an already selected device.
func NewSession(device *cl.Device) (*Session, error) {
	context, err := cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, errors.Wrap(ErrDeviceUnavailable, "creating context: "+err.Error())
	}
	queue, err := context.CreateCommandQueue(device, 0)
	if err != nil {
		context.Release()
		return nil, errors.Wrap(ErrDeviceUnavailable, "creating command queue: "+err.Error())
	}
	return &Session{Device: device, context: context, queue: queue}, nil
}

// Close releases the command queue and the context, in that order.
// Closing twice is a no-op.
func (s *Session) Close() {
	if s.queue != nil {
		s.queue.Release()
		s.queue = nil
	}
	if s.context != nil {
		s.context.Release()
		s.context = nil
	}
}
