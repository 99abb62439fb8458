package bind_group_provider

// BufferWrite describes a single GPU buffer write targeting a specific binding
// on a BindGroupProvider at a given byte offset. Writes staged by the scene
// are flushed in one batch before any draw call of the frame is issued.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
