package wl

import (
	"fmt"

	"github.com/kestrelwl/wl/protocol"
	"github.com/kestrelwl/wl/wire"
)

func init() {
	protocol.Register(&protocol.Descriptor{
		InterfaceName:    "wl_surface",
		InterfaceVersion: surfaceVersion,
		Requests: []protocol.Message{
			{Name: "destroy"},
			{Name: "attach", Fields: []protocol.Field{
				{Name: "buffer", Kind: protocol.KindObject},
				{Name: "x", Kind: protocol.KindInt},
				{Name: "y", Kind: protocol.KindInt},
			}},
			{Name: "damage", Fields: []protocol.Field{
				{Name: "x", Kind: protocol.KindInt},
				{Name: "y", Kind: protocol.KindInt},
				{Name: "width", Kind: protocol.KindInt},
				{Name: "height", Kind: protocol.KindInt},
			}},
			{Name: "frame", Fields: []protocol.Field{{Name: "callback", Kind: protocol.KindNewID}}},
			{Name: "set_opaque_region", Fields: []protocol.Field{{Name: "region", Kind: protocol.KindObject}}},
			{Name: "set_input_region", Fields: []protocol.Field{{Name: "region", Kind: protocol.KindObject}}},
			{Name: "commit"},
		},
		Events: []protocol.Message{
			{Name: "enter", Fields: []protocol.Field{{Name: "output", Kind: protocol.KindObject}}},
			{Name: "leave", Fields: []protocol.Field{{Name: "output", Kind: protocol.KindObject}}},
		},
	})
}

const (
	surfaceInterface = "wl_surface"
	surfaceVersion   = 4
)

type surfaceObject struct {
	id       uint32
	listener surfaceListener
	surface  *Surface
}

func (o *surfaceObject) ID() uint32     { return o.id }
func (o *surfaceObject) SetID(v uint32) { o.id = v }
func (o *surfaceObject) Delete()        {}

func (o *surfaceObject) String() string {
	return fmt.Sprintf("wl_surface@%d", o.id)
}

func (o *surfaceObject) MethodName(op uint16) string {
	d, _ := protocol.Lookup(surfaceInterface)
	return d.MethodName(protocol.EventDirection, op)
}

func (o *surfaceObject) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0:
		output := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		o.listener.Enter(output)
		return nil
	case 1:
		output := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		o.listener.Leave(output)
		return nil
	default:
		return wire.UnknownOpError{Interface: surfaceInterface, Type: "event", Op: msg.Op()}
	}
}

func (o *surfaceObject) Destroy() *wire.MessageBuilder {
	mb := wire.NewMessage(o, 0)
	mb.Method = "destroy"
	return mb
}

func (o *surfaceObject) Attach(buffer wire.Object, x, y int32) *wire.MessageBuilder {
	mb := wire.NewMessage(o, 1)
	mb.Method = "attach"
	mb.Args = []any{buffer, x, y}
	mb.WriteObject(buffer)
	mb.WriteInt(x)
	mb.WriteInt(y)
	return mb
}

func (o *surfaceObject) Damage(x, y, width, height int32) *wire.MessageBuilder {
	mb := wire.NewMessage(o, 2)
	mb.Method = "damage"
	mb.Args = []any{x, y, width, height}
	mb.WriteInt(x)
	mb.WriteInt(y)
	mb.WriteInt(width)
	mb.WriteInt(height)
	return mb
}

func (o *surfaceObject) Frame(callback uint32) *wire.MessageBuilder {
	mb := wire.NewMessage(o, 3)
	mb.Method = "frame"
	mb.Args = []any{callback}
	mb.WriteUint(callback)
	return mb
}

func (o *surfaceObject) SetOpaqueRegion(region wire.Object) *wire.MessageBuilder {
	mb := wire.NewMessage(o, 4)
	mb.Method = "set_opaque_region"
	mb.Args = []any{region}
	mb.WriteObject(region)
	return mb
}

func (o *surfaceObject) SetInputRegion(region wire.Object) *wire.MessageBuilder {
	mb := wire.NewMessage(o, 5)
	mb.Method = "set_input_region"
	mb.Args = []any{region}
	mb.WriteObject(region)
	return mb
}

func (o *surfaceObject) Commit() *wire.MessageBuilder {
	mb := wire.NewMessage(o, 6)
	mb.Method = "commit"
	return mb
}

// Surface is a bound wl_surface: the unit of content a compositor
// composites and presents.
type Surface struct {
	// Enter is called when the surface's content first becomes visible
	// on the given output.
	Enter func(output *Output)
	// Leave is called when the surface's content stops being visible on
	// the given output.
	Leave func(output *Output)

	obj     surfaceObject
	display *Display
}

func (s *Surface) Object() wire.Object {
	return &s.obj
}

// Attach associates buf as the surface's next content, offset by
// (x, y) relative to the buffer's previous attachment.
func (s *Surface) Attach(buf *Buffer, x, y int32) {
	var obj wire.Object
	if buf != nil {
		obj = &buf.obj
	}
	s.display.Enqueue(s.obj.Attach(obj, x, y))
}

// Damage marks a rectangle of the surface's attached buffer, in
// surface-local coordinates, as having changed since the last commit.
func (s *Surface) Damage(x, y, width, height int32) {
	s.display.Enqueue(s.obj.Damage(x, y, width, height))
}

// Frame requests a one-shot callback invoked the next time it would
// be a good time for the client to start drawing a new frame.
func (s *Surface) Frame() *Callback {
	callback := &Callback{}
	callback.obj.listener = callbackListener{callback: callback}
	id := s.display.AddObject(&callback.obj)
	s.display.Enqueue(s.obj.Frame(id))
	return callback
}

// SetOpaqueRegion hints which part of the surface is fully opaque, an
// optimization the compositor may use when region is non-nil.
func (s *Surface) SetOpaqueRegion(region *Region) {
	var obj wire.Object
	if region != nil {
		obj = &region.obj
	}
	s.display.Enqueue(s.obj.SetOpaqueRegion(obj))
}

// SetInputRegion restricts which part of the surface accepts pointer
// and touch input. A nil region restores the default, the whole
// surface.
func (s *Surface) SetInputRegion(region *Region) {
	var obj wire.Object
	if region != nil {
		obj = &region.obj
	}
	s.display.Enqueue(s.obj.SetInputRegion(obj))
}

// Commit atomically applies every pending state change (attach,
// damage, region, and so on) made since the previous commit.
func (s *Surface) Commit() {
	s.display.Enqueue(s.obj.Commit())
}

// Destroy releases the surface.
func (s *Surface) Destroy() {
	s.display.Enqueue(s.obj.Destroy())
	s.display.DeleteObject(s.obj.id)
}

type surfaceListener struct {
	surface *Surface
}

func (lis surfaceListener) Enter(output uint32) {
	if lis.surface.Enter == nil {
		return
	}
	lis.surface.Enter(lookupOutput(lis.surface.display, output))
}

func (lis surfaceListener) Leave(output uint32) {
	if lis.surface.Leave == nil {
		return
	}
	lis.surface.Leave(lookupOutput(lis.surface.display, output))
}
