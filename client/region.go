package wl

import (
	"fmt"

	"github.com/kestrelwl/wl/protocol"
	"github.com/kestrelwl/wl/wire"
)

func init() {
	protocol.Register(&protocol.Descriptor{
		InterfaceName:    "wl_region",
		InterfaceVersion: regionVersion,
		Requests: []protocol.Message{
			{Name: "destroy"},
			{Name: "add", Fields: []protocol.Field{
				{Name: "x", Kind: protocol.KindInt},
				{Name: "y", Kind: protocol.KindInt},
				{Name: "width", Kind: protocol.KindInt},
				{Name: "height", Kind: protocol.KindInt},
			}},
			{Name: "subtract", Fields: []protocol.Field{
				{Name: "x", Kind: protocol.KindInt},
				{Name: "y", Kind: protocol.KindInt},
				{Name: "width", Kind: protocol.KindInt},
				{Name: "height", Kind: protocol.KindInt},
			}},
		},
	})
}

const (
	regionInterface = "wl_region"
	regionVersion   = 1
)

type regionObject struct {
	id uint32
}

func (o *regionObject) ID() uint32     { return o.id }
func (o *regionObject) SetID(v uint32) { o.id = v }
func (o *regionObject) Delete()        {}

func (o *regionObject) String() string {
	return fmt.Sprintf("wl_region@%d", o.id)
}

func (o *regionObject) MethodName(op uint16) string { return "" }

func (o *regionObject) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: regionInterface, Type: "event", Op: msg.Op()}
}

func (o *regionObject) Destroy() *wire.MessageBuilder {
	mb := wire.NewMessage(o, 0)
	mb.Method = "destroy"
	return mb
}

func (o *regionObject) Add(x, y, width, height int32) *wire.MessageBuilder {
	mb := wire.NewMessage(o, 1)
	mb.Method = "add"
	mb.Args = []any{x, y, width, height}
	mb.WriteInt(x)
	mb.WriteInt(y)
	mb.WriteInt(width)
	mb.WriteInt(height)
	return mb
}

func (o *regionObject) Subtract(x, y, width, height int32) *wire.MessageBuilder {
	mb := wire.NewMessage(o, 2)
	mb.Method = "subtract"
	mb.Args = []any{x, y, width, height}
	mb.WriteInt(x)
	mb.WriteInt(y)
	mb.WriteInt(width)
	mb.WriteInt(height)
	return mb
}

// Region is a client-side accumulation of rectangles, used to mark a
// surface's opaque or input-accepting area.
type Region struct {
	obj     regionObject
	display *Display
}

func (r *Region) Object() wire.Object {
	return &r.obj
}

// Add unions a rectangle into the region.
func (r *Region) Add(x, y, width, height int32) {
	r.display.Enqueue(r.obj.Add(x, y, width, height))
}

// Subtract removes a rectangle from the region.
func (r *Region) Subtract(x, y, width, height int32) {
	r.display.Enqueue(r.obj.Subtract(x, y, width, height))
}

// Destroy releases the region. It must not be used afterward.
func (r *Region) Destroy() {
	r.display.Enqueue(r.obj.Destroy())
	r.display.DeleteObject(r.obj.id)
}
