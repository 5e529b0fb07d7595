package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/robvanmieghem/go-opencl/cl"

	"github.com/huzaifakh2002/OpenCL/compute"
	"github.com/huzaifakh2002/OpenCL/imagefile"
)

//Version is the released version string
var Version = "0.2-Dev"

var deviceTypeForCompute = cl.DeviceTypeGPU

func main() {
	printVersion := flag.Bool("v", false, "Show version and exit")
	useCPU := flag.Bool("cpu", false, "If set, also consider CPU devices, only GPU's are used by default")
	outputPath := flag.String("o", "", "Output file path, defaults to the input path with a _gray suffix")
	quality := flag.Int("q", 90, "JPEG quality of the output image")
	flag.Parse()

	if *printVersion {
		fmt.Println("grayscale converter version", Version)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage:", os.Args[0], "[flags] <image>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *useCPU {
		deviceTypeForCompute = cl.DeviceTypeAll
	}

	if err := run(flag.Arg(0), *outputPath, *quality); err != nil {
		log.Println("ERROR -", err)
		os.Exit(1)
	}
}

// run is the single error boundary: everything below it returns an error
// instead of terminating the process. The image is decoded before any
// device resource is acquired, so a bad file never touches the device.
func run(inputPath, outputPath string, quality int) error {
	pixels, desc, format, err := imagefile.Decode(inputPath)
	if err != nil {
		return err
	}
	log.Println("Loaded", inputPath, "-", desc.Width, "x", desc.Height, "-", format)

	device, err := compute.SelectDevice(deviceTypeForCompute)
	if err != nil {
		return err
	}

	pipeline := &Pipeline{Device: device, Spec: grayscaleKernel()}
	gray, err := pipeline.Run(pixels, desc)
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = grayOutputPath(inputPath)
	}
	if err = imagefile.EncodeGray(outputPath, gray, desc, format, quality); err != nil {
		return err
	}
	log.Println("Grayscale image written to", outputPath)
	return nil
}

//grayOutputPath inserts a _gray suffix before the input path's extension
func grayOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + "_gray" + ext
}
