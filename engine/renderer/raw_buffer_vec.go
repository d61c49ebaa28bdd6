package renderer

import (
	"fmt"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/render_resource"
	"github.com/cogentcore/webgpu/wgpu"
	"honnef.co/go/safeish"
)

// growThreshold is the element capacity below which buffers double and above which they grow by a quarter.
const growThreshold = 256

// RawBufferVec is a CPU-side list of plain GPU values mirrored into one GPU buffer. The list is cleared
// and refilled every frame while the GPU buffer is kept and only reallocated when the list outgrows it.
// T must not contain pointers; its in-memory layout is uploaded as is.
type RawBufferVec[T any] struct {
	label    string
	usage    wgpu.BufferUsage
	values   []T
	buffer   *render_resource.Buffer
	capacity int
}

// NewRawBufferVec creates an empty vec. wgpu.BufferUsageCopyDst is always added to usage.
//
// Parameters:
//   - label: the debug label of the GPU buffer
//   - usage: the GPU buffer usage, e.g. wgpu.BufferUsageVertex
//
// Returns:
//   - *RawBufferVec[T]: the empty vec
func NewRawBufferVec[T any](label string, usage wgpu.BufferUsage) *RawBufferVec[T] {
	return &RawBufferVec[T]{
		label: label,
		usage: usage | wgpu.BufferUsageCopyDst,
	}
}

// Push appends a value and returns its index.
func (v *RawBufferVec[T]) Push(value T) uint32 {
	v.values = append(v.values, value)
	return uint32(len(v.values) - 1)
}

// Extend appends values in order.
func (v *RawBufferVec[T]) Extend(values ...T) {
	v.values = append(v.values, values...)
}

// Len returns the number of values pushed since the last Clear.
func (v *RawBufferVec[T]) Len() int {
	return len(v.values)
}

// IsEmpty reports whether no values have been pushed since the last Clear.
func (v *RawBufferVec[T]) IsEmpty() bool {
	return len(v.values) == 0
}

// Values returns the pushed values. The slice is reused after Clear.
func (v *RawBufferVec[T]) Values() []T {
	return v.values
}

// Clear empties the list, keeping both the CPU storage and the GPU buffer.
func (v *RawBufferVec[T]) Clear() {
	v.values = v.values[:0]
}

// Buffer returns the GPU buffer, or nil if nothing has been written yet.
func (v *RawBufferVec[T]) Buffer() *render_resource.Buffer {
	return v.buffer
}

// Capacity returns the number of values the current GPU buffer holds.
func (v *RawBufferVec[T]) Capacity() int {
	return v.capacity
}

// Reserve makes sure the GPU buffer holds at least n values, replacing it when it is too small.
// The contents of a replaced buffer are not carried over.
//
// Parameters:
//   - n: the number of values required
//   - device: the device used to create the buffer
//
// Returns:
//   - error: an error if buffer creation fails
func (v *RawBufferVec[T]) Reserve(n int, device RenderDevice) error {
	if n <= v.capacity && v.buffer != nil {
		return nil
	}
	capacity := growCapacity(v.capacity, n)

	var zero T
	size := uint64(capacity) * uint64(unsafe.Sizeof(zero))
	size = (size + 3) &^ 3
	buf, err := device.CreateBuffer(v.label, size, v.usage)
	if err != nil {
		return fmt.Errorf("%s: failed to grow buffer to %d elements: %w", v.label, capacity, err)
	}
	common.Logger().Debug("grew raw buffer", "label", v.label, "from", v.capacity, "to", capacity, "bytes", size)

	v.buffer.Release()
	v.buffer = buf
	v.capacity = capacity
	return nil
}

// Write uploads the current values to the GPU, growing the buffer first when needed. Writing an
// empty vec does nothing.
//
// Parameters:
//   - device: the device used to create and write the buffer
//
// Returns:
//   - error: an error if the buffer could not be grown
func (v *RawBufferVec[T]) Write(device RenderDevice) error {
	if len(v.values) == 0 {
		return nil
	}
	if err := v.Reserve(len(v.values), device); err != nil {
		return err
	}
	device.WriteBuffer(v.buffer, 0, padToWord(safeish.SliceCast[[]byte](v.values)))
	return nil
}

// Release frees the GPU buffer and the CPU storage.
func (v *RawBufferVec[T]) Release() {
	v.buffer.Release()
	v.buffer = nil
	v.capacity = 0
	v.values = nil
}

// growCapacity doubles small capacities and grows large ones by a quarter until needed fits.
func growCapacity(current, needed int) int {
	if current <= 0 {
		return needed
	}
	for needed > current {
		if current < growThreshold {
			current *= 2
		} else {
			current += current / 4
		}
	}
	return current
}

// padToWord extends data to a multiple of four bytes, the queue write alignment.
func padToWord(data []byte) []byte {
	if rem := len(data) % 4; rem != 0 {
		return append(data[:len(data):len(data)], make([]byte, 4-rem)...)
	}
	return data
}
