// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrNoDevice is returned when a DeviceHandle does not carry a HAL device.
var ErrNoDevice = errors.New("render: no HAL device")

// DeviceHandle provides GPU device access from the host application.
//
// render RECEIVES the device from the host, it does NOT create one. The
// host, typically a gogpu application, implements DeviceHandle and passes
// it to the scheduler and to NewPipelinesFor.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider.
type DeviceHandle = gpucontext.DeviceProvider

// HALDevice returns the HAL device behind a handle.
func HALDevice(h DeviceHandle) (hal.Device, error) {
	if h == nil {
		return nil, ErrNoDevice
	}
	d, ok := h.Device().(hal.Device)
	if !ok || d == nil {
		return nil, fmt.Errorf("%w: handle provides %T", ErrNoDevice, h.Device())
	}
	return d, nil
}

// NullDeviceHandle is a DeviceHandle without a device. Schedulers driving
// CPU executors, such as the reference rasterizer, use it.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo reports an unknown adapter.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "null"}
}

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
