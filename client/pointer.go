package wl

import (
	"fmt"

	"github.com/kestrelwl/wl/protocol"
	"github.com/kestrelwl/wl/wire"
)

func init() {
	protocol.Register(&protocol.Descriptor{
		InterfaceName:    "wl_pointer",
		InterfaceVersion: pointerVersion,
		Requests: []protocol.Message{
			{Name: "set_cursor", Fields: []protocol.Field{
				{Name: "serial", Kind: protocol.KindUint},
				{Name: "surface", Kind: protocol.KindObject},
				{Name: "hotspot_x", Kind: protocol.KindInt},
				{Name: "hotspot_y", Kind: protocol.KindInt},
			}},
			{Name: "release"},
		},
		Events: []protocol.Message{
			{Name: "enter", Fields: []protocol.Field{
				{Name: "serial", Kind: protocol.KindUint},
				{Name: "surface", Kind: protocol.KindObject},
				{Name: "surface_x", Kind: protocol.KindFixed},
				{Name: "surface_y", Kind: protocol.KindFixed},
			}},
			{Name: "leave", Fields: []protocol.Field{
				{Name: "serial", Kind: protocol.KindUint},
				{Name: "surface", Kind: protocol.KindObject},
			}},
			{Name: "motion", Fields: []protocol.Field{
				{Name: "time", Kind: protocol.KindUint},
				{Name: "surface_x", Kind: protocol.KindFixed},
				{Name: "surface_y", Kind: protocol.KindFixed},
			}},
			{Name: "button", Fields: []protocol.Field{
				{Name: "serial", Kind: protocol.KindUint},
				{Name: "time", Kind: protocol.KindUint},
				{Name: "button", Kind: protocol.KindUint},
				{Name: "state", Kind: protocol.KindEnum, Enum: &protocol.Enum{
					Name: "button_state", Closed: true, Values: []uint32{0, 1},
				}},
			}},
			{Name: "axis", Fields: []protocol.Field{
				{Name: "time", Kind: protocol.KindUint},
				{Name: "axis", Kind: protocol.KindEnum, Enum: &protocol.Enum{
					Name: "axis", Closed: true, Values: []uint32{0, 1},
				}},
				{Name: "value", Kind: protocol.KindFixed},
			}},
			{Name: "frame"},
			{Name: "axis_source", Fields: []protocol.Field{{Name: "axis_source", Kind: protocol.KindEnum, Enum: &protocol.Enum{
				Name: "axis_source", Closed: true, Values: []uint32{0, 1, 2, 3},
			}}}},
			{Name: "axis_stop", Fields: []protocol.Field{
				{Name: "time", Kind: protocol.KindUint},
				{Name: "axis", Kind: protocol.KindEnum, Enum: &protocol.Enum{
					Name: "axis", Closed: true, Values: []uint32{0, 1},
				}},
			}},
			{Name: "axis_discrete", Fields: []protocol.Field{
				{Name: "axis", Kind: protocol.KindEnum, Enum: &protocol.Enum{
					Name: "axis", Closed: true, Values: []uint32{0, 1},
				}},
				{Name: "discrete", Kind: protocol.KindInt},
			}},
		},
	})
}

const (
	pointerInterface = "wl_pointer"
	pointerVersion   = 5
)

type pointerObject struct {
	id       uint32
	listener pointerListener
}

func (o *pointerObject) ID() uint32     { return o.id }
func (o *pointerObject) SetID(v uint32) { o.id = v }
func (o *pointerObject) Delete()        {}

func (o *pointerObject) String() string {
	return fmt.Sprintf("wl_pointer@%d", o.id)
}

func (o *pointerObject) MethodName(op uint16) string {
	d, _ := protocol.Lookup(pointerInterface)
	return d.MethodName(protocol.EventDirection, op)
}

func (o *pointerObject) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0:
		serial := msg.ReadUint()
		surface := msg.ReadUint()
		x := msg.ReadFixed()
		y := msg.ReadFixed()
		if err := msg.Err(); err != nil {
			return err
		}
		o.listener.Enter(serial, surface, x, y)
		return nil
	case 1:
		serial := msg.ReadUint()
		surface := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		o.listener.Leave(serial, surface)
		return nil
	case 2:
		time := msg.ReadUint()
		x := msg.ReadFixed()
		y := msg.ReadFixed()
		if err := msg.Err(); err != nil {
			return err
		}
		o.listener.Motion(time, x, y)
		return nil
	case 3:
		serial := msg.ReadUint()
		time := msg.ReadUint()
		button := msg.ReadUint()
		state := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		d, _ := protocol.Lookup(pointerInterface)
		if err := d.ValidateEnum(protocol.EventDirection, 3, 3, state); err != nil {
			return err
		}
		o.listener.Button(serial, time, button, state)
		return nil
	case 4:
		time := msg.ReadUint()
		axis := msg.ReadUint()
		value := msg.ReadFixed()
		if err := msg.Err(); err != nil {
			return err
		}
		d, _ := protocol.Lookup(pointerInterface)
		if err := d.ValidateEnum(protocol.EventDirection, 4, 1, axis); err != nil {
			return err
		}
		o.listener.Axis(time, axis, value)
		return nil
	case 5:
		if err := msg.Err(); err != nil {
			return err
		}
		o.listener.Frame()
		return nil
	case 6:
		source := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		d, _ := protocol.Lookup(pointerInterface)
		if err := d.ValidateEnum(protocol.EventDirection, 6, 0, source); err != nil {
			return err
		}
		o.listener.AxisSource(source)
		return nil
	case 7:
		time := msg.ReadUint()
		axis := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		d, _ := protocol.Lookup(pointerInterface)
		if err := d.ValidateEnum(protocol.EventDirection, 7, 1, axis); err != nil {
			return err
		}
		o.listener.AxisStop(time, axis)
		return nil
	case 8:
		axis := msg.ReadUint()
		discrete := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		d, _ := protocol.Lookup(pointerInterface)
		if err := d.ValidateEnum(protocol.EventDirection, 8, 0, axis); err != nil {
			return err
		}
		o.listener.AxisDiscrete(axis, discrete)
		return nil
	default:
		return wire.UnknownOpError{Interface: pointerInterface, Type: "event", Op: msg.Op()}
	}
}

func (o *pointerObject) SetCursor(serial uint32, surface wire.Object, hotspotX, hotspotY int32) *wire.MessageBuilder {
	mb := wire.NewMessage(o, 0)
	mb.Method = "set_cursor"
	mb.Args = []any{serial, surface, hotspotX, hotspotY}
	mb.WriteUint(serial)
	mb.WriteObject(surface)
	mb.WriteInt(hotspotX)
	mb.WriteInt(hotspotY)
	return mb
}

func (o *pointerObject) Release() *wire.MessageBuilder {
	mb := wire.NewMessage(o, 1)
	mb.Method = "release"
	return mb
}

// Pointer is a bound wl_pointer: a mouse or trackpad-like input
// device belonging to a Seat.
type Pointer struct {
	Enter        func(serial uint32, s *Surface, x, y wire.Fixed)
	Leave        func(serial uint32, s *Surface)
	Motion       func(time uint32, x, y wire.Fixed)
	Button       func(serial, time uint32, button PointerButton, state PointerButtonState)
	Axis         func(time uint32, axis PointerAxis, value wire.Fixed)
	Frame        func()
	AxisSource   func(PointerAxisSource)
	AxisStop     func(time uint32, axis PointerAxis)
	AxisDiscrete func(axis PointerAxis, discrete int32)

	obj     pointerObject
	display *Display
}

func (p *Pointer) Object() wire.Object {
	return &p.obj
}

// SetCursor sets the cursor image shown while the pointer is within
// the surface it most recently entered, identified by serial. A nil
// surface hides the cursor.
func (p *Pointer) SetCursor(serial uint32, surface *Surface, hotspotX, hotspotY int32) {
	var obj wire.Object
	if surface != nil {
		obj = &surface.obj
	}
	p.display.Enqueue(p.obj.SetCursor(serial, obj, hotspotX, hotspotY))
}

// Release informs the compositor that this client is done with the
// pointer device.
func (p *Pointer) Release() {
	p.display.Enqueue(p.obj.Release())
	p.display.DeleteObject(p.obj.id)
}

func lookupSurface(display *Display, id uint32) *Surface {
	o, ok := display.GetObject(id).(*surfaceObject)
	if !ok {
		return nil
	}
	return o.surface
}

type pointerListener struct {
	p *Pointer
}

func (lis pointerListener) Enter(serial uint32, surface uint32, surfaceX wire.Fixed, surfaceY wire.Fixed) {
	if lis.p.Enter != nil {
		lis.p.Enter(serial, lookupSurface(lis.p.display, surface), surfaceX, surfaceY)
	}
}

func (lis pointerListener) Leave(serial uint32, surface uint32) {
	if lis.p.Leave != nil {
		lis.p.Leave(serial, lookupSurface(lis.p.display, surface))
	}
}

func (lis pointerListener) Motion(time uint32, surfaceX wire.Fixed, surfaceY wire.Fixed) {
	if lis.p.Motion != nil {
		lis.p.Motion(time, surfaceX, surfaceY)
	}
}

func (lis pointerListener) Button(serial uint32, time uint32, button uint32, state uint32) {
	if lis.p.Button != nil {
		lis.p.Button(serial, time, PointerButton(button), PointerButtonState(state))
	}
}

func (lis pointerListener) Axis(time uint32, axis uint32, value wire.Fixed) {
	if lis.p.Axis != nil {
		lis.p.Axis(time, PointerAxis(axis), value)
	}
}

func (lis pointerListener) Frame() {
	if lis.p.Frame != nil {
		lis.p.Frame()
	}
}

func (lis pointerListener) AxisSource(axisSource uint32) {
	if lis.p.AxisSource != nil {
		lis.p.AxisSource(PointerAxisSource(axisSource))
	}
}

func (lis pointerListener) AxisStop(time uint32, axis uint32) {
	if lis.p.AxisStop != nil {
		lis.p.AxisStop(time, PointerAxis(axis))
	}
}

func (lis pointerListener) AxisDiscrete(axis uint32, discrete int32) {
	if lis.p.AxisDiscrete != nil {
		lis.p.AxisDiscrete(PointerAxis(axis), discrete)
	}
}

type PointerButton uint32

const (
	PointerButtonLeft PointerButton = 0x110 + iota
	PointerButtonRight
	PointerButtonMiddle
	PointerButtonSide
	PointerButtonExtra
	PointerButtonForward
	PointerButtonBack
	PointerButtonTask
)

func (b PointerButton) String() string {
	switch b {
	case PointerButtonLeft:
		return "left"
	case PointerButtonRight:
		return "right"
	case PointerButtonMiddle:
		return "middle"
	case PointerButtonSide:
		return "side"
	case PointerButtonExtra:
		return "extra"
	case PointerButtonForward:
		return "forward"
	case PointerButtonBack:
		return "back"
	case PointerButtonTask:
		return "task"
	}

	return "unknown"
}
