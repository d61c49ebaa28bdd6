package bind_group_provider

import "github.com/Carmen-Shannon/oxy-ui/engine/renderer/render_resource"

// BufferWrite stages bytes for the buffer bound at Binding on Provider, starting at Offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// Target returns the buffer the write lands in, or nil when nothing is bound at Binding.
func (w BufferWrite) Target() *render_resource.Buffer {
	if w.Provider == nil {
		return nil
	}
	return w.Provider.Buffer(w.Binding)
}
