package compute

import (
	"errors"
	"fmt"
)

// The error kinds a pipeline run can fail with. Every OpenCL API failure is
// fatal at the point of detection; these sentinels only classify it so the
// caller can log one diagnostic line per category.
var (
	ErrDeviceUnavailable = errors.New("compute: no suitable opencl device found")
	ErrAllocation        = errors.New("compute: device buffer allocation failed")
	ErrTransfer          = errors.New("compute: host/device transfer failed")
	ErrKernelArgument    = errors.New("compute: kernel argument mismatch")
	ErrDispatch          = errors.New("compute: kernel dispatch failed")
	ErrSizeMismatch      = errors.New("compute: buffer size mismatch")
)

// CompileError reports a failed kernel build together with the full compiler
// log. An empty log is still a reportable condition, not a silent success.
type CompileError struct {
	Log string
}

func (e *CompileError) Error() string {
	if e.Log == "" {
		return "compute: kernel build failed, the build log is empty"
	}
	return fmt.Sprintf("compute: kernel build failed, build log:\n%s", e.Log)
}
