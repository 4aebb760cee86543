package wl

import (
	"fmt"

	"github.com/kestrelwl/wl/protocol"
	"github.com/kestrelwl/wl/wire"
)

func init() {
	protocol.Register(&protocol.Descriptor{
		InterfaceName:    "wl_output",
		InterfaceVersion: outputVersion,
		Requests: []protocol.Message{
			{Name: "release"},
		},
		Events: []protocol.Message{
			{Name: "geometry", Fields: []protocol.Field{
				{Name: "x", Kind: protocol.KindInt},
				{Name: "y", Kind: protocol.KindInt},
				{Name: "physical_width", Kind: protocol.KindInt},
				{Name: "physical_height", Kind: protocol.KindInt},
				{Name: "subpixel", Kind: protocol.KindEnum, Enum: &protocol.Enum{
					Name: "subpixel", Closed: true, Values: []uint32{0, 1, 2, 3, 4, 5},
				}},
				{Name: "make", Kind: protocol.KindString},
				{Name: "model", Kind: protocol.KindString},
				{Name: "transform", Kind: protocol.KindEnum, Enum: &protocol.Enum{
					Name: "transform", Closed: true, Values: []uint32{0, 1, 2, 3, 4, 5, 6, 7},
				}},
			}},
			{Name: "mode", Fields: []protocol.Field{
				{Name: "flags", Kind: protocol.KindBitfield},
				{Name: "width", Kind: protocol.KindInt},
				{Name: "height", Kind: protocol.KindInt},
				{Name: "refresh", Kind: protocol.KindInt},
			}},
			{Name: "done"},
			{Name: "scale", Fields: []protocol.Field{{Name: "factor", Kind: protocol.KindInt}}},
		},
	})
}

const (
	outputInterface = "wl_output"
	outputVersion   = 3
)

type outputObject struct {
	id       uint32
	listener outputListener
	output   *Output
}

func (o *outputObject) ID() uint32     { return o.id }
func (o *outputObject) SetID(v uint32) { o.id = v }
func (o *outputObject) Delete()        {}

func (o *outputObject) String() string {
	return fmt.Sprintf("wl_output@%d", o.id)
}

func (o *outputObject) MethodName(op uint16) string {
	d, _ := protocol.Lookup(outputInterface)
	return d.MethodName(protocol.EventDirection, op)
}

func (o *outputObject) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0:
		x := msg.ReadInt()
		y := msg.ReadInt()
		physicalWidth := msg.ReadInt()
		physicalHeight := msg.ReadInt()
		subpixel := msg.ReadInt()
		make_ := msg.ReadString()
		model := msg.ReadString()
		transform := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		d, _ := protocol.Lookup(outputInterface)
		if err := d.ValidateEnum(protocol.EventDirection, 0, 4, uint32(subpixel)); err != nil {
			return err
		}
		if err := d.ValidateEnum(protocol.EventDirection, 0, 7, uint32(transform)); err != nil {
			return err
		}
		o.listener.Geometry(x, y, physicalWidth, physicalHeight, subpixel, make_, model, transform)
		return nil
	case 1:
		flags := msg.ReadUint()
		width := msg.ReadInt()
		height := msg.ReadInt()
		refresh := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		o.listener.Mode(flags, width, height, refresh)
		return nil
	case 2:
		if err := msg.Err(); err != nil {
			return err
		}
		o.listener.Done()
		return nil
	case 3:
		factor := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		o.listener.Scale(factor)
		return nil
	default:
		return wire.UnknownOpError{Interface: outputInterface, Type: "event", Op: msg.Op()}
	}
}

func (o *outputObject) Release() *wire.MessageBuilder {
	mb := wire.NewMessage(o, 0)
	mb.Method = "release"
	return mb
}

// Output is a bound wl_output: a physical or logical display the
// compositor manages.
type Output struct {
	Geometry func(x, y, physicalWidth, physicalHeight, subpixel int32, make, model string, transform OutputTransform)
	Mode     func(flags OutputMode, width, height, refresh int32)
	Done     func()
	Scale    func(factor int32)

	obj     outputObject
	display *Display
}

// IsOutput reports whether i names the wl_output interface at a
// version this package can use.
func IsOutput(i Interface) bool {
	return i.Is(outputInterface, outputVersion)
}

// BindOutput binds the global named name as a wl_output.
func BindOutput(display *Display, name uint32) *Output {
	output := &Output{display: display}
	output.obj.output = output
	output.obj.listener = outputListener{output: output}
	id := display.AddObject(&output.obj)

	registry := display.GetRegistry()
	registry.Bind(name, outputInterface, outputVersion, id)

	return output
}

func (out *Output) Object() wire.Object {
	return &out.obj
}

// Release informs the compositor that this client is done with the
// output object, added in version 3 to let outputs be unbound
// without tearing down the whole connection.
func (out *Output) Release() {
	out.display.Enqueue(out.obj.Release())
	out.display.DeleteObject(out.obj.id)
}

// lookupOutput resolves an output object ID to its wrapper, or nil if
// the ID names no live *Output (the zero value, used for "none", or a
// stale reference).
func lookupOutput(display *Display, id uint32) *Output {
	o, ok := display.GetObject(id).(*outputObject)
	if !ok {
		return nil
	}
	return o.output
}

type outputListener struct {
	output *Output
}

func (lis outputListener) Geometry(x, y, physicalWidth, physicalHeight, subpixel int32, make, model string, transform int32) {
	if lis.output.Geometry != nil {
		lis.output.Geometry(x, y, physicalWidth, physicalHeight, subpixel, make, model, OutputTransform(transform))
	}
}

func (lis outputListener) Mode(flags uint32, width, height, refresh int32) {
	if lis.output.Mode != nil {
		lis.output.Mode(OutputMode(flags), width, height, refresh)
	}
}

func (lis outputListener) Done() {
	if lis.output.Done != nil {
		lis.output.Done()
	}
}

func (lis outputListener) Scale(factor int32) {
	if lis.output.Scale != nil {
		lis.output.Scale(factor)
	}
}
