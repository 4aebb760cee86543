package wl

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/kestrelwl/wl/idpool"
	"github.com/kestrelwl/wl/internal/debug"
	"github.com/kestrelwl/wl/internal/ev"
	"github.com/kestrelwl/wl/internal/objstore"
	"github.com/kestrelwl/wl/protocol"
	"github.com/kestrelwl/wl/wire"
)

func init() {
	protocol.Register(&protocol.Descriptor{
		InterfaceName:    "wl_display",
		InterfaceVersion: 1,
		Requests: []protocol.Message{
			{Name: "sync", Fields: []protocol.Field{{Name: "callback", Kind: protocol.KindNewID}}},
			{Name: "get_registry", Fields: []protocol.Field{{Name: "registry", Kind: protocol.KindNewID}}},
		},
		Events: []protocol.Message{
			{Name: "error", Fields: []protocol.Field{
				{Name: "object_id", Kind: protocol.KindObject},
				{Name: "code", Kind: protocol.KindUint},
				{Name: "message", Kind: protocol.KindString},
			}},
			{Name: "delete_id", Fields: []protocol.Field{{Name: "id", Kind: protocol.KindUint}}},
		},
	})
}

const displayInterface = "wl_display"

// displayID is the reserved object ID of the display: ID 1 always
// names the server-global display object, never handed out by an
// idpool.Pool.
const displayID = 1

type displayObject struct {
	id       uint32
	listener displayListener
}

func (o *displayObject) ID() uint32     { return o.id }
func (o *displayObject) SetID(v uint32) { o.id = v }
func (o *displayObject) Delete()        {}

func (o *displayObject) String() string {
	return fmt.Sprintf("wl_display@%d", o.id)
}

func (o *displayObject) MethodName(op uint16) string {
	d, _ := protocol.Lookup(displayInterface)
	return d.MethodName(protocol.EventDirection, op)
}

func (o *displayObject) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0:
		id := msg.ReadUint()
		code := msg.ReadUint()
		message := msg.ReadString()
		if err := msg.Err(); err != nil {
			return err
		}
		o.listener.Error(id, code, message)
		return nil
	case 1:
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		o.listener.DeleteId(id)
		return nil
	default:
		return wire.UnknownOpError{Interface: displayInterface, Type: "event", Op: msg.Op()}
	}
}

func (o *displayObject) Sync(callback uint32) *wire.MessageBuilder {
	mb := wire.NewMessage(o, 0)
	mb.Method = "sync"
	mb.Args = []any{callback}
	mb.WriteUint(callback)
	return mb
}

func (o *displayObject) GetRegistry(registry uint32) *wire.MessageBuilder {
	mb := wire.NewMessage(o, 1)
	mb.Method = "get_registry"
	mb.Args = []any{registry}
	mb.WriteUint(registry)
	return mb
}

type displayListener struct {
	display *Display
}

func (lis displayListener) Error(objectID, code uint32, message string) {
	if lis.display.Error != nil {
		lis.display.Error(objectID, code, message)
	}
}

func (lis displayListener) DeleteId(id uint32) {
	lis.display.DeleteObject(id)
}

// Display owns a connection to a compositor: the socket, the live
// object table, and the single goroutine that reads and dispatches
// incoming messages. Requests are queued with Enqueue and flushed
// with Flush or RoundTrip.
type Display struct {
	// Error is called when the compositor reports a protocol error on
	// some object.
	Error func(id, code uint32, msg string)

	obj  displayObject
	conn *wire.Conn

	ids     *idpool.Pool
	objects *objstore.Store

	registry *Registry

	queue *ev.Queue
	done  chan struct{}
	close sync.Once
}

// DialDisplay dials the compositor socket named by the environment
// (see wire.Dial) and returns a ready Display.
func DialDisplay() (*Display, error) {
	conn, err := wire.Dial()
	if err != nil {
		return nil, err
	}
	return ConnectDisplay(conn), nil
}

// ConnectDisplay wraps an already-established connection.
func ConnectDisplay(conn *wire.Conn) *Display {
	display := &Display{
		conn:    conn,
		ids:     idpool.New(),
		objects: objstore.New(),
		queue:   ev.NewQueue(),
		done:    make(chan struct{}),
	}
	display.obj.listener = displayListener{display: display}
	display.objects.Add(displayID, &display.obj)

	go display.listen()

	return display
}

func (display *Display) listen() {
	for {
		msg, err := wire.ReadMessage(display.conn)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}

			select {
			case <-display.done:
				return
			case display.queue.Add() <- func() error { return err }:
				if errors.Is(err, wire.ErrSocketClosed) {
					return
				}
				continue
			}
		}

		select {
		case <-display.done:
			return
		case display.queue.Add() <- func() error { return display.dispatch(msg) }:
		}
	}
}

func (display *Display) dispatch(msg *wire.MessageBuffer) error {
	obj := display.objects.Get(msg.Sender())
	if obj == nil {
		return wire.UnknownSenderIDError{Msg: msg}
	}

	err := obj.Dispatch(msg)
	debug.Printf("%v", msg.Debug(obj))
	return err
}

// Close terminates the dispatch loop and closes the underlying
// connection.
func (display *Display) Close() error {
	display.close.Do(func() { close(display.done) })
	display.queue.Stop()
	return display.conn.Close()
}

// AddObject allocates a fresh object ID from the pool, assigns it to
// obj, and registers obj in the object table.
func (display *Display) AddObject(obj wire.Object) uint32 {
	id := display.ids.Create()
	display.objects.Add(id, obj)
	return id
}

// GetObject looks up a live object by ID.
func (display *Display) GetObject(id uint32) wire.Object {
	return display.objects.Get(id)
}

// DeleteObject removes id from the object table and returns it to the
// ID pool for reuse. Deleting an id that is already waiting in the
// pool's free list is a no-op; an id that is not in the object table
// is still handed to the pool, which queues it for reuse.
func (display *Display) DeleteObject(id uint32) {
	display.objects.Delete(id)
	display.ids.Destroy(id)
}

// Enqueue schedules msg to be sent on the next Flush or RoundTrip.
func (display *Display) Enqueue(msg *wire.MessageBuilder) {
	display.queue.Add() <- func() error { return msg.Build(display.conn) }
}

// Flush sends any queued requests and runs any queued dispatch
// callbacks accumulated so far, without blocking for more.
func (display *Display) Flush() error {
	select {
	case queue := <-display.queue.Get():
		return queue.Flush()
	default:
		return nil
	}
}

// RoundTrip flushes the queue and blocks until the compositor has
// processed everything sent so far, using a sync callback as a
// barrier.
func (display *Display) RoundTrip() error {
	done := make(chan struct{})
	display.Sync(func(uint32) { close(done) })

	var errs []error

	for {
		select {
		case <-done:
			return errors.Join(errs...)

		case queue := <-display.queue.Get():
			errs = append(errs, ev.Flush(queue)...)
		}
	}
}

// GetRegistry returns the connection's single registry object,
// creating and binding it on first use.
func (display *Display) GetRegistry() *Registry {
	if display.registry != nil {
		return display.registry
	}

	registry := &Registry{display: display, globals: make(map[uint32]Interface)}
	registry.obj.listener = registryListener{registry: registry}
	id := display.AddObject(&registry.obj)
	display.Enqueue(display.obj.GetRegistry(id))
	display.registry = registry
	return registry
}

// Sync sends a wl_display.sync request and calls done once the
// compositor's matching callback event arrives.
func (display *Display) Sync(done func(uint32)) {
	callback := &Callback{}
	callback.obj.listener = callbackListener{callback: callback}
	callback.Then(func(data uint32) {
		display.DeleteObject(callback.obj.id)
		done(data)
	})
	id := display.AddObject(&callback.obj)
	display.Enqueue(display.obj.Sync(id))
}
