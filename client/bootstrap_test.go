package wl_test

import (
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	wl "github.com/kestrelwl/wl/client"
	"github.com/kestrelwl/wl/wire"
)

// fakeObject is a minimal wire.Object standing in for the server-side
// sender of a message built directly with the wire package, bypassing
// the client package's own request/event plumbing.
type fakeObject struct{ id uint32 }

func (o *fakeObject) ID() uint32                         { return o.id }
func (o *fakeObject) SetID(id uint32)                    { o.id = id }
func (o *fakeObject) Delete()                            {}
func (o *fakeObject) Dispatch(*wire.MessageBuffer) error { return nil }
func (o *fakeObject) MethodName(uint16) string           { return "" }
func (o *fakeObject) String() string                     { return "fake" }

func socketpair(t *testing.T) (*wire.Conn, *wire.Conn) {
	t.Helper()

	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	a, err := net.FileConn(os.NewFile(uintptr(fds[0]), ""))
	if err != nil {
		t.Fatalf("FileConn(a): %v", err)
	}
	b, err := net.FileConn(os.NewFile(uintptr(fds[1]), ""))
	if err != nil {
		t.Fatalf("FileConn(b): %v", err)
	}

	ca := wire.NewConn(a.(*net.UnixConn))
	cb := wire.NewConn(b.(*net.UnixConn))
	t.Cleanup(func() {
		ca.Close()
		cb.Close()
	})
	return ca, cb
}

// global writes a wl_registry.global event naming interfaceName at
// version, as seen by a client whose registry is registryID.
func global(t *testing.T, conn *wire.Conn, registryID, name uint32, interfaceName string, version uint32) {
	t.Helper()
	mb := wire.NewMessage(&fakeObject{id: registryID}, 0)
	mb.WriteUint(name)
	mb.WriteString(interfaceName)
	mb.WriteUint(version)
	if err := mb.Build(conn); err != nil {
		t.Fatalf("build global event: %v", err)
	}
}

// syncDone writes the wl_callback.done event a sync request's callback
// object is waiting for.
func syncDone(t *testing.T, conn *wire.Conn, callbackID uint32) {
	t.Helper()
	mb := wire.NewMessage(&fakeObject{id: callbackID}, 0)
	mb.WriteUint(0)
	if err := mb.Build(conn); err != nil {
		t.Fatalf("build done event: %v", err)
	}
}

func TestRegisterGlobalsBindsRequestedInterfaces(t *testing.T) {
	client, compositor := socketpair(t)
	display := wl.ConnectDisplay(client)
	defer display.Close()

	// RegisterGlobals allocates the registry (id 2) and then the sync
	// callback (id 3) before it ever blocks, so these IDs are stable
	// for a freshly connected Display.
	const registryID, callbackID = 2, 3

	done := make(chan struct{})
	go func() {
		defer close(done)
		global(t, compositor, registryID, 10, "wl_compositor", 4)
		global(t, compositor, registryID, 11, "wl_shm", 1)
		syncDone(t, compositor, callbackID)
	}()

	var gotCompositor *wl.Compositor
	var gotShm *wl.Shm

	required := []wl.RequiredInterface{
		{Name: "wl_compositor", Version: 4, Bind: func(d *wl.Display, name uint32) uint32 {
			gotCompositor = wl.BindCompositor(d, name)
			return gotCompositor.Object().ID()
		}},
		{Name: "wl_shm", Version: 1, Bind: func(d *wl.Display, name uint32) uint32 {
			gotShm = wl.BindShm(d, name)
			return gotShm.Object().ID()
		}},
	}

	ids, err := wl.RegisterGlobals(display, required)
	if err != nil {
		t.Fatalf("RegisterGlobals: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("fake compositor goroutine never finished")
	}

	if len(ids) != 2 || ids[0] == 0 || ids[1] == 0 {
		t.Fatalf("ids = %v, want two non-zero entries", ids)
	}
	if gotCompositor == nil {
		t.Fatal("wl_compositor was never bound")
	}
	if gotShm == nil {
		t.Fatal("wl_shm was never bound")
	}
}

func TestRegisterGlobalsOutdatedVersion(t *testing.T) {
	client, compositor := socketpair(t)
	display := wl.ConnectDisplay(client)
	defer display.Close()

	const registryID = 2

	go func() {
		global(t, compositor, registryID, 10, "wl_compositor", 1)
	}()

	required := []wl.RequiredInterface{
		{Name: "wl_compositor", Version: 4, Bind: func(d *wl.Display, name uint32) uint32 {
			return wl.BindCompositor(d, name).Object().ID()
		}},
	}

	_, err := wl.RegisterGlobals(display, required)

	var outdated wl.OutdatedCompositorProtocolError
	if !errors.As(err, &outdated) {
		t.Fatalf("err = %v, want OutdatedCompositorProtocolError", err)
	}
	if outdated.Have != 1 || outdated.Want != 4 {
		t.Fatalf("outdated = %+v, want Have=1 Want=4", outdated)
	}
}
