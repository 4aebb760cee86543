package wl

import (
	"fmt"
	"os"

	"github.com/kestrelwl/wl/protocol"
	"github.com/kestrelwl/wl/wire"
)

func init() {
	protocol.Register(&protocol.Descriptor{
		InterfaceName:    "wl_keyboard",
		InterfaceVersion: keyboardVersion,
		Requests: []protocol.Message{
			{Name: "release"},
		},
		Events: []protocol.Message{
			{Name: "keymap", Fields: []protocol.Field{
				{Name: "format", Kind: protocol.KindEnum, Enum: &protocol.Enum{
					Name: "keymap_format", Closed: true, Values: []uint32{0, 1},
				}},
				{Name: "fd", Kind: protocol.KindFD},
				{Name: "size", Kind: protocol.KindUint},
			}},
			{Name: "enter", Fields: []protocol.Field{
				{Name: "serial", Kind: protocol.KindUint},
				{Name: "surface", Kind: protocol.KindObject},
				{Name: "keys", Kind: protocol.KindArray},
			}},
			{Name: "leave", Fields: []protocol.Field{
				{Name: "serial", Kind: protocol.KindUint},
				{Name: "surface", Kind: protocol.KindObject},
			}},
			{Name: "key", Fields: []protocol.Field{
				{Name: "serial", Kind: protocol.KindUint},
				{Name: "time", Kind: protocol.KindUint},
				{Name: "key", Kind: protocol.KindUint},
				{Name: "state", Kind: protocol.KindEnum, Enum: &protocol.Enum{
					Name: "key_state", Closed: true, Values: []uint32{0, 1},
				}},
			}},
			{Name: "modifiers", Fields: []protocol.Field{
				{Name: "serial", Kind: protocol.KindUint},
				{Name: "mods_depressed", Kind: protocol.KindUint},
				{Name: "mods_latched", Kind: protocol.KindUint},
				{Name: "mods_locked", Kind: protocol.KindUint},
				{Name: "group", Kind: protocol.KindUint},
			}},
			{Name: "repeat_info", Fields: []protocol.Field{
				{Name: "rate", Kind: protocol.KindInt},
				{Name: "delay", Kind: protocol.KindInt},
			}},
		},
	})
}

const (
	keyboardInterface = "wl_keyboard"
	keyboardVersion   = 4
)

type keyboardObject struct {
	id       uint32
	listener keyboardListener
}

func (o *keyboardObject) ID() uint32     { return o.id }
func (o *keyboardObject) SetID(v uint32) { o.id = v }
func (o *keyboardObject) Delete()        {}

func (o *keyboardObject) String() string {
	return fmt.Sprintf("wl_keyboard@%d", o.id)
}

func (o *keyboardObject) MethodName(op uint16) string {
	d, _ := protocol.Lookup(keyboardInterface)
	return d.MethodName(protocol.EventDirection, op)
}

func (o *keyboardObject) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0:
		format := msg.ReadUint()
		fd := msg.ReadFile()
		size := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		d, _ := protocol.Lookup(keyboardInterface)
		if err := d.ValidateEnum(protocol.EventDirection, 0, 0, format); err != nil {
			return err
		}
		o.listener.Keymap(format, fd, size)
		return nil
	case 1:
		serial := msg.ReadUint()
		surface := msg.ReadUint()
		keys := msg.ReadArray()
		if err := msg.Err(); err != nil {
			return err
		}
		o.listener.Enter(serial, surface, keys)
		return nil
	case 2:
		serial := msg.ReadUint()
		surface := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		o.listener.Leave(serial, surface)
		return nil
	case 3:
		serial := msg.ReadUint()
		time := msg.ReadUint()
		key := msg.ReadUint()
		state := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		d, _ := protocol.Lookup(keyboardInterface)
		if err := d.ValidateEnum(protocol.EventDirection, 3, 3, state); err != nil {
			return err
		}
		o.listener.Key(serial, time, key, state)
		return nil
	case 4:
		serial := msg.ReadUint()
		depressed := msg.ReadUint()
		latched := msg.ReadUint()
		locked := msg.ReadUint()
		group := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		o.listener.Modifiers(serial, depressed, latched, locked, group)
		return nil
	case 5:
		rate := msg.ReadInt()
		delay := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		o.listener.RepeatInfo(rate, delay)
		return nil
	default:
		return wire.UnknownOpError{Interface: keyboardInterface, Type: "event", Op: msg.Op()}
	}
}

func (o *keyboardObject) Release() *wire.MessageBuilder {
	mb := wire.NewMessage(o, 0)
	mb.Method = "release"
	return mb
}

// Keyboard is a bound wl_keyboard: the text/key input device
// belonging to a Seat.
type Keyboard struct {
	Keymap     func(format KeyboardKeymapFormat, file *os.File, size uint32)
	Enter      func(serial uint32, s *Surface, keys []byte)
	Leave      func(serial uint32, s *Surface)
	Key        func(serial, time, key uint32, state KeyState)
	Modifiers  func(serial, modsDepressed, modsLatched, modsLocked, group uint32)
	RepeatInfo func(rate, delay int32)

	obj     keyboardObject
	display *Display
}

func (kb *Keyboard) Object() wire.Object {
	return &kb.obj
}

// Release informs the compositor that this client is done with the
// keyboard device.
func (kb *Keyboard) Release() {
	kb.display.Enqueue(kb.obj.Release())
	kb.display.DeleteObject(kb.obj.id)
}

type keyboardListener struct {
	kb *Keyboard
}

func (lis keyboardListener) Keymap(format uint32, fd *os.File, size uint32) {
	if lis.kb.Keymap != nil {
		lis.kb.Keymap(KeyboardKeymapFormat(format), fd, size)
	}
}

func (lis keyboardListener) Enter(serial uint32, surface uint32, keys []byte) {
	if lis.kb.Enter != nil {
		lis.kb.Enter(serial, lookupSurface(lis.kb.display, surface), keys)
	}
}

func (lis keyboardListener) Leave(serial uint32, surface uint32) {
	if lis.kb.Leave != nil {
		lis.kb.Leave(serial, lookupSurface(lis.kb.display, surface))
	}
}

func (lis keyboardListener) Key(serial uint32, time uint32, key uint32, state uint32) {
	if lis.kb.Key != nil {
		lis.kb.Key(serial, time, key, KeyState(state))
	}
}

func (lis keyboardListener) Modifiers(serial, modsDepressed, modsLatched, modsLocked, group uint32) {
	if lis.kb.Modifiers != nil {
		lis.kb.Modifiers(serial, modsDepressed, modsLatched, modsLocked, group)
	}
}

func (lis keyboardListener) RepeatInfo(rate int32, delay int32) {
	if lis.kb.RepeatInfo != nil {
		lis.kb.RepeatInfo(rate, delay)
	}
}
