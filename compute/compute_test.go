package compute

import (
	"errors"
	"strings"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/robvanmieghem/go-opencl/cl"
)

func TestCompileErrorSurfacesLog(t *testing.T) {
	err := &CompileError{Log: "kernel.cl:3:5: error: use of undeclared identifier 'foo'"}
	if !strings.Contains(err.Error(), "undeclared identifier") {
		t.Error("build log not surfaced:", err)
	}
}

//an empty build log must still read as a failure, not be swallowed
func TestCompileErrorEmptyLog(t *testing.T) {
	err := &CompileError{}
	if !strings.Contains(err.Error(), "build failed") {
		t.Error("empty-log compile failure is not reported:", err)
	}
}

func TestErrorKindsSurviveWrapping(t *testing.T) {
	testSet := []error{
		ErrDeviceUnavailable,
		ErrAllocation,
		ErrTransfer,
		ErrKernelArgument,
		ErrDispatch,
		ErrSizeMismatch,
	}
	for _, kind := range testSet {
		wrapped := pkgerrors.Wrapf(kind, "context %d", 42)
		if !errors.Is(wrapped, kind) {
			t.Error("wrapping loses the error kind:", wrapped)
		}
	}
}

func TestAccessModeMemFlags(t *testing.T) {
	if ReadOnly.memFlag() != cl.MemReadOnly {
		t.Error("ReadOnly maps to", ReadOnly.memFlag())
	}
	if WriteOnly.memFlag() != cl.MemWriteOnly {
		t.Error("WriteOnly maps to", WriteOnly.memFlag())
	}
}

//closing a session twice or releasing never-acquired handles must be safe
func TestCloseIsIdempotent(t *testing.T) {
	session := &Session{}
	session.Close()
	session.Close()

	kernel := &Kernel{}
	kernel.Release()
	kernel.Release()

	buffer := &Buffer{}
	buffer.Release()
	buffer.Release()
}
