package main

import (
	"log"

	"github.com/pkg/errors"
	"github.com/robvanmieghem/go-opencl/cl"

	"github.com/huzaifakh2002/OpenCL/compute"
	"github.com/huzaifakh2002/OpenCL/imagefile"
)

// Pipeline converts one interleaved color buffer to grayscale on a single
// OpenCL device. Every device resource is acquired fresh in Run and
// released before Run returns, on the error paths too, so nothing survives
// across invocations.
type Pipeline struct {
	Device *cl.Device
	Spec   compute.KernelSpec
}

// Run uploads the pixel buffer, executes the kernel over a (width, height)
// grid with one work-item per output pixel, and returns the width*height
// luminance buffer.
func (p *Pipeline) Run(pixels []byte, desc imagefile.Descriptor) ([]byte, error) {
	if desc.Width <= 0 || desc.Height <= 0 || desc.Channels <= 0 {
		return nil, errors.Wrapf(compute.ErrSizeMismatch, "invalid descriptor %dx%dx%d",
			desc.Width, desc.Height, desc.Channels)
	}
	if len(pixels) != desc.Width*desc.Height*desc.Channels {
		return nil, errors.Wrapf(compute.ErrSizeMismatch, "pixel buffer is %d bytes, want %d",
			len(pixels), desc.Width*desc.Height*desc.Channels)
	}

	log.Println("Converting on", p.Device.Type(), "-", p.Device.Name())

	session, err := compute.NewSession(p.Device)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	kernel, err := session.BuildKernel(p.Spec)
	if err != nil {
		return nil, err
	}
	defer kernel.Release()

	input, err := session.AllocateBuffer(compute.ReadOnly, len(pixels))
	if err != nil {
		return nil, err
	}
	defer input.Release()

	output, err := session.AllocateBuffer(compute.WriteOnly, desc.Width*desc.Height)
	if err != nil {
		return nil, err
	}
	defer output.Release()

	if err = session.Upload(input, pixels); err != nil {
		return nil, err
	}
	if err = session.Dispatch(kernel, input, output, desc.Width, desc.Height, desc.Channels); err != nil {
		return nil, err
	}

	gray := make([]byte, desc.Width*desc.Height)
	if err = session.Download(output, gray); err != nil {
		return nil, err
	}
	return gray, nil
}
