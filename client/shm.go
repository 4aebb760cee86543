package wl

import (
	"fmt"
	"os"

	"github.com/kestrelwl/wl/protocol"
	"github.com/kestrelwl/wl/wire"
)

func init() {
	protocol.Register(&protocol.Descriptor{
		InterfaceName:    "wl_shm",
		InterfaceVersion: shmVersion,
		Requests: []protocol.Message{
			{Name: "create_pool", Fields: []protocol.Field{
				{Name: "id", Kind: protocol.KindNewID},
				{Name: "fd", Kind: protocol.KindFD},
				{Name: "size", Kind: protocol.KindInt},
			}},
		},
		Events: []protocol.Message{
			{Name: "format", Fields: []protocol.Field{{Name: "format", Kind: protocol.KindEnum, Enum: &protocol.Enum{
				Name: "format", Closed: false,
			}}}},
		},
	})
}

const (
	shmInterface = "wl_shm"
	shmVersion   = 1
)

type shmObject struct {
	id       uint32
	listener shmListener
}

func (o *shmObject) ID() uint32     { return o.id }
func (o *shmObject) SetID(v uint32) { o.id = v }
func (o *shmObject) Delete()        {}

func (o *shmObject) String() string {
	return fmt.Sprintf("wl_shm@%d", o.id)
}

func (o *shmObject) MethodName(op uint16) string {
	d, _ := protocol.Lookup(shmInterface)
	return d.MethodName(protocol.EventDirection, op)
}

func (o *shmObject) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0:
		format := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		o.listener.Format(format)
		return nil
	default:
		return wire.UnknownOpError{Interface: shmInterface, Type: "event", Op: msg.Op()}
	}
}

func (o *shmObject) CreatePool(id uint32, file *os.File, size int32) *wire.MessageBuilder {
	mb := wire.NewMessage(o, 0)
	mb.Method = "create_pool"
	mb.Args = []any{id, file, size}
	mb.WriteUint(id)
	mb.WriteFile(file)
	mb.WriteInt(size)
	return mb
}

// Shm is a bound wl_shm: the factory for shared-memory-backed buffer
// pools.
type Shm struct {
	// Format is called once for every pixel format the compositor
	// supports.
	Format func(ShmFormat)

	obj     shmObject
	display *Display
}

// IsShm reports whether i names the wl_shm interface at a version
// this package can use.
func IsShm(i Interface) bool {
	return i.Is(shmInterface, shmVersion)
}

// BindShm binds the global named name as a wl_shm.
func BindShm(display *Display, name uint32) *Shm {
	shm := &Shm{display: display}
	shm.obj.listener = shmListener{shm: shm}
	id := display.AddObject(&shm.obj)

	registry := display.GetRegistry()
	registry.Bind(name, shmInterface, shmVersion, id)

	return shm
}

func (shm *Shm) Object() wire.Object {
	return &shm.obj
}

// CreatePool wraps file, an already shm_open/memfd-backed file of the
// given size, as a wl_shm_pool that buffers can be carved out of.
func (shm *Shm) CreatePool(file *os.File, size int32) *ShmPool {
	pool := &ShmPool{display: shm.display}
	id := shm.display.AddObject(&pool.obj)
	shm.display.Enqueue(shm.obj.CreatePool(id, file, size))

	return pool
}

type shmListener struct {
	shm *Shm
}

func (lis shmListener) Format(format uint32) {
	if lis.shm.Format != nil {
		lis.shm.Format(ShmFormat(format))
	}
}
