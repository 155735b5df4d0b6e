// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

//go:build opencl

package gpu

import (
	"context"
	_ "embed"
	"fmt"
	"sync"
	"unsafe"

	. "github.com/flokiorg/cube-miner/mining/algo/common"
	"github.com/jgillich/go-opencl/cl"
	"github.com/rs/zerolog/log"
)

//go:embed kernel.cl
var kernelSource string

// slot layout in the results buffer: offset followed by 8 digest words
const slotWords = 9

type OpenCLDevice struct {
	mu sync.Mutex

	device  *cl.Device
	ctx     *cl.Context
	queue   *cl.CommandQueue
	program *cl.Program
	kernel  *cl.Kernel
	counter *cl.MemObject
	results *cl.MemObject

	capacity int
}

// NewOpenCLDevice compiles the cube kernel for device index of the first
// platform and allocates result buffers for capacity slots.
func NewOpenCLDevice(index, capacity int) (Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		return nil, fmt.Errorf("get platforms: %w", err)
	}
	if len(platforms) == 0 {
		return nil, fmt.Errorf("no opencl platform: %w", ErrDeviceUnavailable)
	}

	devices, err := platforms[0].GetDevices(cl.DeviceTypeAll)
	if err != nil {
		return nil, fmt.Errorf("get devices: %w", err)
	}
	if index < 0 || index >= len(devices) {
		return nil, fmt.Errorf("device %d of %d: %w", index, len(devices), ErrDeviceUnavailable)
	}

	d := &OpenCLDevice{device: devices[index], capacity: capacity}
	if err := d.init(); err != nil {
		d.Close()
		return nil, err
	}

	log.Info().Msgf("opencl device: %s", d.device.Name())
	return d, nil
}

func (d *OpenCLDevice) init() (err error) {
	if d.ctx, err = cl.CreateContext([]*cl.Device{d.device}); err != nil {
		return fmt.Errorf("create context: %w", err)
	}
	if d.queue, err = d.ctx.CreateCommandQueue(d.device, 0); err != nil {
		return fmt.Errorf("create command queue: %w", err)
	}
	if d.program, err = d.ctx.CreateProgramWithSource([]string{kernelSource}); err != nil {
		return fmt.Errorf("create program: %w", err)
	}
	if err = d.program.BuildProgram(nil, ""); err != nil {
		return fmt.Errorf("build program: %w", err)
	}
	if d.kernel, err = d.program.CreateKernel("cube_search"); err != nil {
		return fmt.Errorf("create kernel: %w", err)
	}
	if d.counter, err = d.ctx.CreateEmptyBuffer(cl.MemReadWrite, 4); err != nil {
		return fmt.Errorf("create counter buffer: %w", err)
	}
	if d.results, err = d.ctx.CreateEmptyBuffer(cl.MemWriteOnly, d.capacity*slotWords*4); err != nil {
		return fmt.Errorf("create results buffer: %w", err)
	}
	return nil
}

func (d *OpenCLDevice) Name() string {
	return "opencl"
}

// Launch cannot interrupt a running kernel; ctx is only checked before the
// batch is enqueued.
func (d *OpenCLDevice) Launch(ctx context.Context, batch Batch, out *SlotBuffer) error {
	if ctx.Err() != nil {
		return ErrMiningCancelled
	}
	if out.Capacity() > d.capacity {
		return fmt.Errorf("slot buffer of %d exceeds device capacity %d", out.Capacity(), d.capacity)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var count uint32
	if _, err := d.queue.EnqueueWriteBuffer(d.counter, true, 0, 4, unsafe.Pointer(&count), nil); err != nil {
		return fmt.Errorf("reset counter: %w", err)
	}

	args := []func() error{
		func() error { return d.kernel.SetArgUint64(0, batch.Base) },
		func() error { return d.kernel.SetArgUint64(1, batch.Difficulty) },
		func() error { return d.kernel.SetArgUint32(2, uint32(batch.Target)) },
		func() error { return d.kernel.SetArgUint32(3, uint32(batch.Scheme.Mode)) },
		func() error { return d.kernel.SetArgUint32(4, uint32(batch.Scheme.Encoding)) },
		func() error { return d.kernel.SetArgUint32(5, uint32(out.Capacity())) },
		func() error { return d.kernel.SetArgBuffer(6, d.counter) },
		func() error { return d.kernel.SetArgBuffer(7, d.results) },
	}
	for i, set := range args {
		if err := set(); err != nil {
			return fmt.Errorf("set kernel arg %d: %w", i, err)
		}
	}

	if _, err := d.queue.EnqueueNDRangeKernel(d.kernel, nil, []int{int(batch.Size)}, nil, nil); err != nil {
		return fmt.Errorf("enqueue kernel: %w", err)
	}
	if err := d.queue.Finish(); err != nil {
		return fmt.Errorf("finish: %w", err)
	}

	if _, err := d.queue.EnqueueReadBuffer(d.counter, true, 0, 4, unsafe.Pointer(&count), nil); err != nil {
		return fmt.Errorf("read counter: %w", err)
	}
	out.SetCount(count)

	n := min(int(count), out.Capacity())
	if n == 0 {
		return nil
	}
	words := make([]uint32, n*slotWords)
	if _, err := d.queue.EnqueueReadBuffer(d.results, true, 0, len(words)*4, unsafe.Pointer(&words[0]), nil); err != nil {
		return fmt.Errorf("read results: %w", err)
	}
	for i := 0; i < n; i++ {
		w := words[i*slotWords : (i+1)*slotWords]
		slot := Slot{Offset: w[0]}
		copy(slot.Digest[:], w[1:])
		out.Set(i, slot)
	}
	return nil
}

func (d *OpenCLDevice) Close() error {
	if d.results != nil {
		d.results.Release()
	}
	if d.counter != nil {
		d.counter.Release()
	}
	if d.kernel != nil {
		d.kernel.Release()
	}
	if d.program != nil {
		d.program.Release()
	}
	if d.queue != nil {
		d.queue.Release()
	}
	if d.ctx != nil {
		d.ctx.Release()
	}
	return nil
}
