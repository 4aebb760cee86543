package wl

import (
	"fmt"

	"github.com/kestrelwl/wl/protocol"
	"github.com/kestrelwl/wl/wire"
)

func init() {
	protocol.Register(&protocol.Descriptor{
		InterfaceName:    "wl_callback",
		InterfaceVersion: 1,
		Events: []protocol.Message{
			{Name: "done", Fields: []protocol.Field{{Name: "callback_data", Kind: protocol.KindUint}}},
		},
	})
}

const callbackInterface = "wl_callback"

type callbackObject struct {
	id       uint32
	listener callbackListener
}

func (o *callbackObject) ID() uint32     { return o.id }
func (o *callbackObject) SetID(v uint32) { o.id = v }
func (o *callbackObject) Delete()        {}

func (o *callbackObject) String() string {
	return fmt.Sprintf("wl_callback@%d", o.id)
}

func (o *callbackObject) MethodName(op uint16) string {
	d, _ := protocol.Lookup(callbackInterface)
	return d.MethodName(protocol.EventDirection, op)
}

func (o *callbackObject) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0:
		data := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		o.listener.Done(data)
		return nil
	default:
		return wire.UnknownOpError{Interface: callbackInterface, Type: "event", Op: msg.Op()}
	}
}

type callbackListener struct {
	callback *Callback
}

func (lis callbackListener) Done(data uint32) {
	if lis.callback.done != nil {
		lis.callback.done(data)
	}
}

// Callback is a one-shot wl_callback: it fires its Then function
// exactly once, when the compositor's done event arrives, and is then
// considered dead.
type Callback struct {
	obj  callbackObject
	done func(data uint32)
}

// Then registers f to be called when the callback fires. It replaces
// any previously registered function.
func (c *Callback) Then(f func(data uint32)) {
	c.done = f
}
