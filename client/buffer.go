package wl

import (
	"fmt"

	"github.com/kestrelwl/wl/protocol"
	"github.com/kestrelwl/wl/wire"
)

func init() {
	protocol.Register(&protocol.Descriptor{
		InterfaceName:    "wl_buffer",
		InterfaceVersion: bufferVersion,
		Requests: []protocol.Message{
			{Name: "destroy"},
		},
		Events: []protocol.Message{
			{Name: "release"},
		},
	})
}

const (
	bufferInterface = "wl_buffer"
	bufferVersion   = 1
)

type bufferObject struct {
	id       uint32
	listener bufferListener
}

func (o *bufferObject) ID() uint32     { return o.id }
func (o *bufferObject) SetID(v uint32) { o.id = v }
func (o *bufferObject) Delete()        {}

func (o *bufferObject) String() string {
	return fmt.Sprintf("wl_buffer@%d", o.id)
}

func (o *bufferObject) MethodName(op uint16) string {
	d, _ := protocol.Lookup(bufferInterface)
	return d.MethodName(protocol.EventDirection, op)
}

func (o *bufferObject) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0:
		if err := msg.Err(); err != nil {
			return err
		}
		o.listener.Release()
		return nil
	default:
		return wire.UnknownOpError{Interface: bufferInterface, Type: "event", Op: msg.Op()}
	}
}

func (o *bufferObject) Destroy() *wire.MessageBuilder {
	mb := wire.NewMessage(o, 0)
	mb.Method = "destroy"
	return mb
}

// Buffer is a bound wl_buffer: a single committable image, backed by
// a region of a ShmPool's shared memory.
type Buffer struct {
	// Release is called when the compositor is done reading from the
	// buffer's memory and it is safe to reuse or free.
	Release func()

	obj     bufferObject
	display *Display
}

func (buf *Buffer) Object() wire.Object {
	return &buf.obj
}

// Destroy releases the buffer. It must not be attached to a surface
// afterward.
func (buf *Buffer) Destroy() {
	buf.display.Enqueue(buf.obj.Destroy())
	buf.display.DeleteObject(buf.obj.id)
}

type bufferListener struct {
	buf *Buffer
}

func (lis bufferListener) Release() {
	if lis.buf.Release != nil {
		lis.buf.Release()
	}
}
