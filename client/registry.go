package wl

import (
	"fmt"

	"golang.org/x/exp/maps"

	"github.com/kestrelwl/wl/protocol"
	"github.com/kestrelwl/wl/wire"
)

func init() {
	protocol.Register(&protocol.Descriptor{
		InterfaceName:    "wl_registry",
		InterfaceVersion: 1,
		Requests: []protocol.Message{
			{Name: "bind", Fields: []protocol.Field{
				{Name: "name", Kind: protocol.KindUint},
				{Name: "id", Kind: protocol.KindNewID},
			}},
		},
		Events: []protocol.Message{
			{Name: "global", Fields: []protocol.Field{
				{Name: "name", Kind: protocol.KindUint},
				{Name: "interface", Kind: protocol.KindString},
				{Name: "version", Kind: protocol.KindUint},
			}},
			{Name: "global_remove", Fields: []protocol.Field{{Name: "name", Kind: protocol.KindUint}}},
		},
	})
}

const registryInterface = "wl_registry"

type registryObject struct {
	id       uint32
	listener registryListener
}

func (o *registryObject) ID() uint32     { return o.id }
func (o *registryObject) SetID(v uint32) { o.id = v }
func (o *registryObject) Delete()        {}

func (o *registryObject) String() string {
	return fmt.Sprintf("wl_registry@%d", o.id)
}

func (o *registryObject) MethodName(op uint16) string {
	d, _ := protocol.Lookup(registryInterface)
	return d.MethodName(protocol.EventDirection, op)
}

func (o *registryObject) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0:
		name := msg.ReadUint()
		inter := msg.ReadString()
		version := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		o.listener.Global(name, inter, version)
		return nil
	case 1:
		name := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		o.listener.GlobalRemove(name)
		return nil
	default:
		return wire.UnknownOpError{Interface: registryInterface, Type: "event", Op: msg.Op()}
	}
}

// Bind asks the compositor to associate the global named by name with
// a new client object of the given interface and version, using id as
// its object ID.
func (o *registryObject) Bind(name uint32, iface string, version, id uint32) *wire.MessageBuilder {
	mb := wire.NewMessage(o, 0)
	mb.Method = "bind"
	mb.Args = []any{name, iface, version, id}
	mb.WriteUint(name)
	mb.WriteNewID(wire.NewID{Interface: iface, Version: version, ID: id})
	return mb
}

// Registry is a connection's single wl_registry object. It tracks the
// globals a compositor has advertised via Globals, and is the target
// of every Bind* helper.
type Registry struct {
	obj     registryObject
	display *Display

	globals map[uint32]Interface

	// onGlobal, if set, is called after every global event in addition
	// to the globals map being updated. RegisterGlobals uses this to
	// bind interfaces as their global events arrive rather than after
	// the fact.
	onGlobal func(name uint32, iface string, version uint32)
}

// Globals returns a snapshot of the currently advertised globals,
// keyed by the numeric name the compositor assigned them.
func (registry *Registry) Globals() map[uint32]Interface {
	return maps.Clone(registry.globals)
}

// Bind sends a bind request for the global named by name.
func (registry *Registry) Bind(name uint32, iface string, version, id uint32) {
	registry.display.Enqueue(registry.obj.Bind(name, iface, version, id))
}

type registryListener struct {
	registry *Registry
}

func (lis registryListener) Global(name uint32, inter string, version uint32) {
	lis.registry.globals[name] = Interface{Name: inter, Version: version}
	if lis.registry.onGlobal != nil {
		lis.registry.onGlobal(name, inter, version)
	}
}

func (lis registryListener) GlobalRemove(name uint32) {
	delete(lis.registry.globals, name)
}
