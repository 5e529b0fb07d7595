package compute

import (
	"github.com/pkg/errors"
	"github.com/robvanmieghem/go-opencl/cl"
)

// ArgSpec names one positional kernel parameter. The slot index is the
// position in the KernelSpec's Args list.
type ArgSpec struct {
	Role string
}

// KernelSpec bundles kernel source text with its entry point and the ordered
// parameter list the host binds at dispatch time. Passing the source in as a
// value keeps the pipeline independent of any particular kernel.
type KernelSpec struct {
	Source     string
	EntryPoint string
	Args       []ArgSpec
}

// Kernel is a compiled kernel and the program it was built from.
type Kernel struct {
	kernel  *cl.Kernel
	program *cl.Program
	spec    KernelSpec
}

// BuildKernel compiles the kernel source for the session's device and
// creates the entry-point kernel. On a failed build the full compiler log is
// returned inside a *CompileError. The host-side argument list is checked
// against the compiled kernel's declared argument count, so an ordering or
// arity drift between the two is caught here instead of at dispatch.
func (s *Session) BuildKernel(spec KernelSpec) (*Kernel, error) {
	program, err := s.context.CreateProgramWithSource([]string{spec.Source})
	if err != nil {
		return nil, &CompileError{Log: err.Error()}
	}
	if err = program.BuildProgram([]*cl.Device{s.Device}, ""); err != nil {
		program.Release()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, &CompileError{Log: buildErr.Error()}
		}
		return nil, &CompileError{Log: err.Error()}
	}
	kernel, err := program.CreateKernel(spec.EntryPoint)
	if err != nil {
		program.Release()
		return nil, &CompileError{Log: "no kernel " + spec.EntryPoint + " in program: " + err.Error()}
	}
	// Not all drivers can report the argument count, skip the check there.
	if numArgs, err := kernel.NumArgs(); err == nil && numArgs != len(spec.Args) {
		kernel.Release()
		program.Release()
		return nil, errors.Wrapf(ErrKernelArgument,
			"kernel %s declares %d arguments, host binds %d", spec.EntryPoint, numArgs, len(spec.Args))
	}
	return &Kernel{kernel: kernel, program: program, spec: spec}, nil
}

// Release frees the kernel and its program, in that order.
// Releasing twice is a no-op.
func (k *Kernel) Release() {
	if k.kernel != nil {
		k.kernel.Release()
		k.kernel = nil
	}
	if k.program != nil {
		k.program.Release()
		k.program = nil
	}
}
