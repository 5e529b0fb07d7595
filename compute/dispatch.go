package compute

import (
	"github.com/pkg/errors"
)

// Dispatch binds the kernel arguments in their positional order and submits
// one work-item per output pixel over a (width, height) grid. The local
// work size is left nil so the device picks its own tiling. Submission does
// not wait for completion, the following blocking Download does.
func (s *Session) Dispatch(k *Kernel, input, output *Buffer, width, height, channels int) error {
	if len(k.spec.Args) != 5 {
		return errors.Wrapf(ErrKernelArgument,
			"kernel %s binds %d arguments, dispatch provides 5", k.spec.EntryPoint, len(k.spec.Args))
	}
	if err := k.kernel.SetArgBuffer(0, input.mem); err != nil {
		return k.argError(0, err)
	}
	if err := k.kernel.SetArgBuffer(1, output.mem); err != nil {
		return k.argError(1, err)
	}
	if err := k.kernel.SetArgInt32(2, int32(width)); err != nil {
		return k.argError(2, err)
	}
	if err := k.kernel.SetArgInt32(3, int32(height)); err != nil {
		return k.argError(3, err)
	}
	if err := k.kernel.SetArgInt32(4, int32(channels)); err != nil {
		return k.argError(4, err)
	}
	if _, err := s.queue.EnqueueNDRangeKernel(k.kernel, nil, []int{width, height}, nil, nil); err != nil {
		return errors.Wrapf(ErrDispatch, "%dx%d grid: %v", width, height, err)
	}
	return nil
}

func (k *Kernel) argError(slot int, err error) error {
	return errors.Wrapf(ErrKernelArgument, "arg %d (%s): %v", slot, k.spec.Args[slot].Role, err)
}
