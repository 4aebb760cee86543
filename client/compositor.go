package wl

import (
	"fmt"

	"github.com/kestrelwl/wl/protocol"
	"github.com/kestrelwl/wl/wire"
)

func init() {
	protocol.Register(&protocol.Descriptor{
		InterfaceName:    "wl_compositor",
		InterfaceVersion: compositorVersion,
		Requests: []protocol.Message{
			{Name: "create_surface", Fields: []protocol.Field{{Name: "id", Kind: protocol.KindNewID}}},
			{Name: "create_region", Fields: []protocol.Field{{Name: "id", Kind: protocol.KindNewID}}},
		},
	})
}

const (
	compositorInterface = "wl_compositor"
	compositorVersion   = 4
)

type compositorObject struct {
	id uint32
}

func (o *compositorObject) ID() uint32     { return o.id }
func (o *compositorObject) SetID(v uint32) { o.id = v }
func (o *compositorObject) Delete()        {}

func (o *compositorObject) String() string {
	return fmt.Sprintf("wl_compositor@%d", o.id)
}

func (o *compositorObject) MethodName(op uint16) string {
	return ""
}

func (o *compositorObject) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: compositorInterface, Type: "event", Op: msg.Op()}
}

func (o *compositorObject) CreateSurface(id uint32) *wire.MessageBuilder {
	mb := wire.NewMessage(o, 0)
	mb.Method = "create_surface"
	mb.Args = []any{id}
	mb.WriteUint(id)
	return mb
}

func (o *compositorObject) CreateRegion(id uint32) *wire.MessageBuilder {
	mb := wire.NewMessage(o, 1)
	mb.Method = "create_region"
	mb.Args = []any{id}
	mb.WriteUint(id)
	return mb
}

// Compositor is a bound wl_compositor: the factory for surfaces and
// input regions.
type Compositor struct {
	obj     compositorObject
	display *Display
}

// IsCompositor reports whether i names the wl_compositor interface at
// a version this package can use.
func IsCompositor(i Interface) bool {
	return i.Is(compositorInterface, compositorVersion)
}

// BindCompositor binds the global named name as a wl_compositor.
func BindCompositor(display *Display, name uint32) *Compositor {
	compositor := &Compositor{display: display}
	id := display.AddObject(&compositor.obj)

	registry := display.GetRegistry()
	registry.Bind(name, compositorInterface, compositorVersion, id)

	return compositor
}

func (c *Compositor) Object() wire.Object {
	return &c.obj
}

// CreateSurface asks the compositor for a new wl_surface.
func (c *Compositor) CreateSurface() *Surface {
	s := &Surface{display: c.display}
	s.obj.surface = s
	s.obj.listener = surfaceListener{surface: s}
	id := c.display.AddObject(&s.obj)
	c.display.Enqueue(c.obj.CreateSurface(id))

	return s
}

// CreateRegion asks the compositor for a new wl_region, used to
// describe opaque or input-accepting areas of a surface.
func (c *Compositor) CreateRegion() *Region {
	r := &Region{display: c.display}
	id := c.display.AddObject(&r.obj)
	c.display.Enqueue(c.obj.CreateRegion(id))

	return r
}
