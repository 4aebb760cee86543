package wl

import (
	"fmt"

	"github.com/kestrelwl/wl/protocol"
	"github.com/kestrelwl/wl/wire"
)

func init() {
	protocol.Register(&protocol.Descriptor{
		InterfaceName:    "wl_seat",
		InterfaceVersion: seatVersion,
		Requests: []protocol.Message{
			{Name: "get_pointer", Fields: []protocol.Field{{Name: "id", Kind: protocol.KindNewID}}},
			{Name: "get_keyboard", Fields: []protocol.Field{{Name: "id", Kind: protocol.KindNewID}}},
			{Name: "get_touch", Fields: []protocol.Field{{Name: "id", Kind: protocol.KindNewID}}},
			{Name: "release"},
		},
		Events: []protocol.Message{
			{Name: "capabilities", Fields: []protocol.Field{{Name: "capabilities", Kind: protocol.KindBitfield}}},
			{Name: "name", Fields: []protocol.Field{{Name: "name", Kind: protocol.KindString}}},
		},
	})
}

const (
	seatInterface = "wl_seat"
	seatVersion   = 5
)

type seatObject struct {
	id       uint32
	listener seatListener
}

func (o *seatObject) ID() uint32     { return o.id }
func (o *seatObject) SetID(v uint32) { o.id = v }
func (o *seatObject) Delete()        {}

func (o *seatObject) String() string {
	return fmt.Sprintf("wl_seat@%d", o.id)
}

func (o *seatObject) MethodName(op uint16) string {
	d, _ := protocol.Lookup(seatInterface)
	return d.MethodName(protocol.EventDirection, op)
}

func (o *seatObject) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0:
		cap := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		o.listener.Capabilities(cap)
		return nil
	case 1:
		name := msg.ReadString()
		if err := msg.Err(); err != nil {
			return err
		}
		o.listener.Name(name)
		return nil
	default:
		return wire.UnknownOpError{Interface: seatInterface, Type: "event", Op: msg.Op()}
	}
}

func (o *seatObject) GetPointer(id uint32) *wire.MessageBuilder {
	mb := wire.NewMessage(o, 0)
	mb.Method = "get_pointer"
	mb.Args = []any{id}
	mb.WriteUint(id)
	return mb
}

func (o *seatObject) GetKeyboard(id uint32) *wire.MessageBuilder {
	mb := wire.NewMessage(o, 1)
	mb.Method = "get_keyboard"
	mb.Args = []any{id}
	mb.WriteUint(id)
	return mb
}

func (o *seatObject) Release() *wire.MessageBuilder {
	mb := wire.NewMessage(o, 3)
	mb.Method = "release"
	return mb
}

// Seat is a bound wl_seat: a grouping of input devices (pointer,
// keyboard, touch) associated with a single user session.
type Seat struct {
	Capabilities func(SeatCapability)
	Name         func(string)

	obj     seatObject
	display *Display
}

// IsSeat reports whether i names the wl_seat interface at a version
// this package can use.
func IsSeat(i Interface) bool {
	return i.Is(seatInterface, seatVersion)
}

// BindSeat binds the global named name as a wl_seat.
func BindSeat(display *Display, name uint32) *Seat {
	seat := &Seat{display: display}
	seat.obj.listener = seatListener{seat: seat}
	id := display.AddObject(&seat.obj)

	registry := display.GetRegistry()
	registry.Bind(name, seatInterface, seatVersion, id)

	return seat
}

func (seat *Seat) Object() wire.Object {
	return &seat.obj
}

// GetPointer requests the seat's pointer device. The seat must have
// advertised SeatCapabilityPointer.
func (seat *Seat) GetPointer() *Pointer {
	p := &Pointer{display: seat.display}
	p.obj.listener = pointerListener{p: p}
	id := seat.display.AddObject(&p.obj)
	seat.display.Enqueue(seat.obj.GetPointer(id))

	return p
}

// GetKeyboard requests the seat's keyboard device. The seat must have
// advertised SeatCapabilityKeyboard.
func (seat *Seat) GetKeyboard() *Keyboard {
	kb := &Keyboard{display: seat.display}
	kb.obj.listener = keyboardListener{kb: kb}
	id := seat.display.AddObject(&kb.obj)
	seat.display.Enqueue(seat.obj.GetKeyboard(id))

	return kb
}

// Release informs the compositor that this client is done with the
// seat.
func (seat *Seat) Release() {
	seat.display.Enqueue(seat.obj.Release())
	seat.display.DeleteObject(seat.obj.id)
}

type seatListener struct {
	seat *Seat
}

func (lis seatListener) Capabilities(cap uint32) {
	if lis.seat.Capabilities != nil {
		lis.seat.Capabilities(SeatCapability(cap))
	}
}

func (lis seatListener) Name(name string) {
	if lis.seat.Name != nil {
		lis.seat.Name(name)
	}
}
