package main

import "github.com/huzaifakh2002/OpenCL/compute"

const grayscaleKernelSource = `
__kernel void rgb_to_gray(__global const uchar *input, __global uchar *output, int width, int height, int channels) {
    int x = get_global_id(0);
    int y = get_global_id(1);
    int idx = (y * width + x) * channels;
    uchar b = input[idx];
    uchar g = input[idx + 1];
    uchar r = input[idx + 2];
    uchar gray = (uchar)(0.299f * r + 0.587f * g + 0.114f * b);
    output[y * width + x] = gray;
}
`

//grayscaleKernel describes the BGR to luminance kernel: its source, entry
//point and the positional argument list the host binds at dispatch. The
//cast to uchar truncates toward zero, it does not round.
func grayscaleKernel() compute.KernelSpec {
	return compute.KernelSpec{
		Source:     grayscaleKernelSource,
		EntryPoint: "rgb_to_gray",
		Args: []compute.ArgSpec{
			{Role: "input"},
			{Role: "output"},
			{Role: "width"},
			{Role: "height"},
			{Role: "channels"},
		},
	}
}
