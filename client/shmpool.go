package wl

import (
	"fmt"

	"github.com/kestrelwl/wl/protocol"
	"github.com/kestrelwl/wl/wire"
)

func init() {
	protocol.Register(&protocol.Descriptor{
		InterfaceName:    "wl_shm_pool",
		InterfaceVersion: shmPoolVersion,
		Requests: []protocol.Message{
			{Name: "create_buffer", Fields: []protocol.Field{
				{Name: "id", Kind: protocol.KindNewID},
				{Name: "offset", Kind: protocol.KindInt},
				{Name: "width", Kind: protocol.KindInt},
				{Name: "height", Kind: protocol.KindInt},
				{Name: "stride", Kind: protocol.KindInt},
				{Name: "format", Kind: protocol.KindEnum, Enum: &protocol.Enum{
					Name: "format", Closed: false,
				}},
			}},
			{Name: "destroy"},
			{Name: "resize", Fields: []protocol.Field{{Name: "size", Kind: protocol.KindInt}}},
		},
	})
}

const (
	shmPoolInterface = "wl_shm_pool"
	shmPoolVersion   = 1
)

type shmPoolObject struct {
	id uint32
}

func (o *shmPoolObject) ID() uint32     { return o.id }
func (o *shmPoolObject) SetID(v uint32) { o.id = v }
func (o *shmPoolObject) Delete()        {}

func (o *shmPoolObject) String() string {
	return fmt.Sprintf("wl_shm_pool@%d", o.id)
}

func (o *shmPoolObject) MethodName(op uint16) string { return "" }

func (o *shmPoolObject) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: shmPoolInterface, Type: "event", Op: msg.Op()}
}

func (o *shmPoolObject) CreateBuffer(id uint32, offset, width, height, stride int32, format uint32) *wire.MessageBuilder {
	mb := wire.NewMessage(o, 0)
	mb.Method = "create_buffer"
	mb.Args = []any{id, offset, width, height, stride, format}
	mb.WriteUint(id)
	mb.WriteInt(offset)
	mb.WriteInt(width)
	mb.WriteInt(height)
	mb.WriteInt(stride)
	mb.WriteUint(format)
	return mb
}

func (o *shmPoolObject) Destroy() *wire.MessageBuilder {
	mb := wire.NewMessage(o, 1)
	mb.Method = "destroy"
	return mb
}

func (o *shmPoolObject) Resize(size int32) *wire.MessageBuilder {
	mb := wire.NewMessage(o, 2)
	mb.Method = "resize"
	mb.Args = []any{size}
	mb.WriteInt(size)
	return mb
}

// ShmPool is a bound wl_shm_pool: a window onto a shared-memory file
// that client buffers are carved out of.
type ShmPool struct {
	obj     shmPoolObject
	display *Display
}

func (pool *ShmPool) Object() wire.Object {
	return &pool.obj
}

// CreateBuffer carves a buffer of the given dimensions and pixel
// format out of the pool, starting at byte offset.
func (pool *ShmPool) CreateBuffer(offset, width, height, stride int32, format ShmFormat) *Buffer {
	buf := &Buffer{display: pool.display}
	buf.obj.listener = bufferListener{buf: buf}
	id := pool.display.AddObject(&buf.obj)
	pool.display.Enqueue(pool.obj.CreateBuffer(id, offset, width, height, stride, uint32(format)))

	return buf
}

// Resize tells the compositor that the pool now spans size bytes. It
// does not touch the backing file; the caller must have already grown
// that file to at least that size.
func (pool *ShmPool) Resize(size int32) {
	pool.display.Enqueue(pool.obj.Resize(size))
}

// Destroy releases the pool. Buffers already created from it remain
// valid.
func (pool *ShmPool) Destroy() {
	pool.display.Enqueue(pool.obj.Destroy())
	pool.display.DeleteObject(pool.obj.id)
}
