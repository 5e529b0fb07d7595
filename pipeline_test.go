package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/robvanmieghem/go-opencl/cl"

	"github.com/huzaifakh2002/OpenCL/compute"
	"github.com/huzaifakh2002/OpenCL/imagefile"
)

//cpuGrayscale is the host reference for the kernel: same weights, same BGR
//byte order, same truncating cast.
func cpuGrayscale(pixels []byte, desc imagefile.Descriptor) []byte {
	gray := make([]byte, desc.Width*desc.Height)
	for p := range gray {
		idx := p * desc.Channels
		b := float64(pixels[idx])
		g := float64(pixels[idx+1])
		r := float64(pixels[idx+2])
		gray[p] = uint8(0.299*r + 0.587*g + 0.114*b)
	}
	return gray
}

func TestGrayscaleTruncation(t *testing.T) {
	testSet := []struct {
		b, g, r byte
		gray    byte
	}{
		{b: 0, g: 0, r: 0, gray: 0},
		{b: 255, g: 0, r: 0, gray: 29},
		{b: 0, g: 255, r: 0, gray: 149},
		{b: 0, g: 0, r: 255, gray: 76},
		{b: 10, g: 200, r: 30, gray: 127},
		{b: 1, g: 2, r: 3, gray: 2},
		// 0.299*255 + 0.587*255 + 0.114*254 = 254.886: rounding would give
		// 255, the truncating cast must give 254.
		{b: 254, g: 255, r: 255, gray: 254},
		// 254.701, same boundary from the blue side.
		{b: 255, g: 255, r: 254, gray: 254},
	}
	for _, test := range testSet {
		pixels := []byte{test.b, test.g, test.r}
		desc := imagefile.Descriptor{Width: 1, Height: 1, Channels: 3}
		if result := cpuGrayscale(pixels, desc); result[0] != test.gray {
			t.Error(test, "got", result[0])
		}
	}
}

func TestGrayscaleKernelSpec(t *testing.T) {
	spec := grayscaleKernel()
	if spec.EntryPoint != "rgb_to_gray" {
		t.Error("wrong entry point", spec.EntryPoint)
	}
	roles := []string{"input", "output", "width", "height", "channels"}
	if len(spec.Args) != len(roles) {
		t.Fatal("wrong argument count", len(spec.Args))
	}
	for i, role := range roles {
		if spec.Args[i].Role != role {
			t.Error("arg", i, "is", spec.Args[i].Role, "want", role)
		}
	}
}

//Run must reject a bad descriptor or a mismatched buffer before it touches
//any device, so these cases need no OpenCL runtime at all.
func TestRunValidation(t *testing.T) {
	pipeline := &Pipeline{Spec: grayscaleKernel()}

	testSet := []struct {
		pixels []byte
		desc   imagefile.Descriptor
	}{
		{pixels: []byte{1, 2, 3}, desc: imagefile.Descriptor{Width: 0, Height: 1, Channels: 3}},
		{pixels: []byte{1, 2, 3}, desc: imagefile.Descriptor{Width: 1, Height: -1, Channels: 3}},
		{pixels: []byte{1, 2, 3}, desc: imagefile.Descriptor{Width: 2, Height: 1, Channels: 3}},
		{pixels: nil, desc: imagefile.Descriptor{Width: 1, Height: 1, Channels: 3}},
	}
	for _, test := range testSet {
		_, err := pipeline.Run(test.pixels, test.desc)
		if !errors.Is(err, compute.ErrSizeMismatch) {
			t.Error(test, "got", err)
		}
	}
}

func openclDevice(t *testing.T) *cl.Device {
	t.Helper()
	platforms, err := cl.GetPlatforms()
	if err != nil {
		t.Skip("no opencl runtime available:", err)
	}
	for _, platform := range platforms {
		devices, err := cl.GetDevices(platform, cl.DeviceTypeAll)
		if err != nil {
			continue
		}
		if len(devices) > 0 {
			return devices[0]
		}
	}
	t.Skip("no opencl device found")
	return nil
}

func TestConvertOnDevice(t *testing.T) {
	pipeline := &Pipeline{Device: openclDevice(t), Spec: grayscaleKernel()}

	// 3x2 fixture with distinct per-channel values so a transposed channel
	// order would show up immediately.
	pixels := []byte{
		255, 0, 0, 0, 255, 0, 0, 0, 255,
		10, 200, 30, 1, 2, 3, 0, 0, 0,
	}
	desc := imagefile.Descriptor{Width: 3, Height: 2, Channels: 3}

	gray, err := pipeline.Run(pixels, desc)
	if err != nil {
		t.Fatal(err)
	}
	if len(gray) != desc.Width*desc.Height {
		t.Fatal("output is", len(gray), "bytes, want", desc.Width*desc.Height)
	}
	if expected := cpuGrayscale(pixels, desc); !bytes.Equal(gray, expected) {
		t.Error("device result", gray, "does not match host reference", expected)
	}

	// Two runs on the same input must be byte-identical.
	again, err := pipeline.Run(pixels, desc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(gray, again) {
		t.Error("second run differs:", gray, "then", again)
	}
}

func TestConvertSinglePixel(t *testing.T) {
	pipeline := &Pipeline{Device: openclDevice(t), Spec: grayscaleKernel()}

	gray, err := pipeline.Run([]byte{0, 0, 255}, imagefile.Descriptor{Width: 1, Height: 1, Channels: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(gray) != 1 {
		t.Fatal("output is", len(gray), "bytes, want 1")
	}
	if gray[0] != 76 {
		t.Error("pure red pixel converted to", gray[0], "want 76")
	}
}
