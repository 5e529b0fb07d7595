package compute

import (
	"github.com/pkg/errors"
	"github.com/robvanmieghem/go-opencl/cl"
)

// AccessMode tags a device buffer as kernel input or kernel output memory.
type AccessMode int

const (
	// ReadOnly memory is written by the host and read by the kernel.
	ReadOnly AccessMode = iota
	// WriteOnly memory is written by the kernel and read back by the host.
	WriteOnly
)

func (m AccessMode) memFlag() cl.MemFlag {
	if m == WriteOnly {
		return cl.MemWriteOnly
	}
	return cl.MemReadOnly
}

// Buffer is a device-resident memory region with a fixed byte size.
type Buffer struct {
	mem  *cl.MemObject
	size int
}

// AllocateBuffer creates an uninitialized device buffer of sizeBytes bytes.
func (s *Session) AllocateBuffer(mode AccessMode, sizeBytes int) (*Buffer, error) {
	mem, err := s.context.CreateEmptyBuffer(mode.memFlag(), sizeBytes)
	if err != nil {
		return nil, errors.Wrapf(ErrAllocation, "%d bytes: %v", sizeBytes, err)
	}
	return &Buffer{mem: mem, size: sizeBytes}, nil
}

// Release frees the device memory. Releasing twice is a no-op.
func (b *Buffer) Release() {
	if b.mem != nil {
		b.mem.Release()
		b.mem = nil
	}
}

// Upload copies host data into the buffer and blocks until the copy has
// completed. A transfer larger than the buffer was allocated with is
// rejected host-side before touching the device.
func (s *Session) Upload(buffer *Buffer, data []byte) error {
	if len(data) > buffer.size {
		return errors.Wrapf(ErrSizeMismatch, "upload of %d bytes into a %d byte buffer", len(data), buffer.size)
	}
	if _, err := s.queue.EnqueueWriteBufferByte(buffer.mem, true, 0, data, nil); err != nil {
		return errors.Wrap(ErrTransfer, "upload: "+err.Error())
	}
	return nil
}

// Download copies the buffer into dst and blocks until the copy has
// completed. On the in-order queue this also forces completion of every
// previously submitted kernel, so no separate wait is needed.
func (s *Session) Download(buffer *Buffer, dst []byte) error {
	if len(dst) > buffer.size {
		return errors.Wrapf(ErrSizeMismatch, "download of %d bytes from a %d byte buffer", len(dst), buffer.size)
	}
	if _, err := s.queue.EnqueueReadBufferByte(buffer.mem, true, 0, dst, nil); err != nil {
		return errors.Wrap(ErrTransfer, "download: "+err.Error())
	}
	return nil
}
