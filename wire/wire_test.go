package wire_test

import (
	"errors"
	"net"
	"os"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/kestrelwl/wl/wire"
)

// testObject is a minimal wire.Object for exercising MessageBuilder
// and MessageBuffer without any generated interface.
type testObject struct {
	id uint32
}

func (o *testObject) ID() uint32                         { return o.id }
func (o *testObject) SetID(id uint32)                    { o.id = id }
func (o *testObject) Delete()                            {}
func (o *testObject) Dispatch(*wire.MessageBuffer) error { return nil }
func (o *testObject) MethodName(op uint16) string        { return "test_method" }
func (o *testObject) String() string                     { return "test_object" }

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

func TestRoundTripEmptyPayload(t *testing.T) {
	a, b := socketpair(t)
	sender := &testObject{id: 1}

	mb := wire.NewMessage(sender, 6)
	if err := mb.Build(a); err != nil {
		t.Fatalf("Build: %v", err)
	}

	msg, err := wire.ReadMessage(b)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if msg.Sender() != 1 {
		t.Fatalf("Sender() = %v, want 1", msg.Sender())
	}
	if msg.Op() != 6 {
		t.Fatalf("Op() = %v, want 6", msg.Op())
	}
	if msg.Size() != 8 {
		t.Fatalf("Size() = %v, want 8", msg.Size())
	}
	if err := msg.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}
}

func TestRoundTripStringAndArray(t *testing.T) {
	a, b := socketpair(t)
	sender := &testObject{id: 2}

	mb := wire.NewMessage(sender, 0)
	mb.WriteUint(42)
	mb.WriteString("hello")
	mb.WriteArray([]byte{1, 2, 3})
	if err := mb.Build(a); err != nil {
		t.Fatalf("Build: %v", err)
	}

	msg, err := wire.ReadMessage(b)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}

	if v := msg.ReadUint(); v != 42 {
		t.Fatalf("ReadUint() = %v, want 42", v)
	}
	if v := msg.ReadString(); v != "hello" {
		t.Fatalf("ReadString() = %q, want %q", v, "hello")
	}
	arr := msg.ReadArray()
	if len(arr) != 3 || arr[0] != 1 || arr[1] != 2 || arr[2] != 3 {
		t.Fatalf("ReadArray() = %v, want [1 2 3]", arr)
	}
	if err := msg.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}
}

func TestBuildPropagatesPriorError(t *testing.T) {
	sender := &testObject{id: 1}
	mb := wire.NewMessage(sender, 0)

	mb.WriteFile(os.NewFile(^uintptr(0), "")) // invalid fd, Dup fails
	mb.WriteUint(1)                           // no-op once mb.err is set

	if err := mb.Build(nil); err == nil {
		t.Fatal("Build should surface the WriteFile error")
	}
}

func TestReadErrorEventDecode(t *testing.T) {
	a, b := socketpair(t)
	sender := &testObject{id: 1}

	mb := wire.NewMessage(sender, 0)
	mb.WriteUint(7)    // object_id
	mb.WriteUint(3)    // code
	mb.WriteString("boom")
	if err := mb.Build(a); err != nil {
		t.Fatalf("Build: %v", err)
	}

	msg, err := wire.ReadMessage(b)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}

	id := msg.ReadUint()
	code := msg.ReadUint()
	reason := msg.ReadString()
	if err := msg.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}
	if id != 7 || code != 3 || reason != "boom" {
		t.Fatalf("decoded (%v, %v, %q), want (7, 3, \"boom\")", id, code, reason)
	}
}

func TestReadPastEndOfMessageIsEndOfStream(t *testing.T) {
	a, b := socketpair(t)
	sender := &testObject{id: 1}

	mb := wire.NewMessage(sender, 0)
	mb.WriteUint(1)
	if err := mb.Build(a); err != nil {
		t.Fatalf("Build: %v", err)
	}

	msg, err := wire.ReadMessage(b)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	msg.ReadUint()
	msg.ReadUint() // past the end of the one-field body

	if err := msg.Err(); !errors.Is(err, wire.ErrEndOfStream) {
		t.Fatalf("Err() = %v, want ErrEndOfStream", err)
	}
}

func TestFileDescriptorTransfer(t *testing.T) {
	a, b := socketpair(t)
	sender := &testObject{id: 1}

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	const payload = "fd payload"
	if _, err := w.WriteString(payload); err != nil {
		t.Fatalf("write to pipe: %v", err)
	}

	mb := wire.NewMessage(sender, 0)
	mb.WriteFile(r)
	if err := mb.Build(a); err != nil {
		t.Fatalf("Build: %v", err)
	}

	msg, err := wire.ReadMessage(b)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	got := msg.ReadFile()
	if got == nil {
		t.Fatal("ReadFile() = nil")
	}
	defer got.Close()

	buf := make([]byte, len(payload))
	if _, err := got.Read(buf); err != nil {
		t.Fatalf("read transferred fd: %v", err)
	}
	if string(buf) != payload {
		t.Fatalf("read %q, want %q", buf, payload)
	}
}

func TestReadFileWithoutQueuedFdFails(t *testing.T) {
	a, b := socketpair(t)
	sender := &testObject{id: 1}

	mb := wire.NewMessage(sender, 0)
	mb.WriteUint(0)
	if err := mb.Build(a); err != nil {
		t.Fatalf("Build: %v", err)
	}

	msg, err := wire.ReadMessage(b)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	msg.ReadFile()
	if err := msg.Err(); !errors.Is(err, wire.ErrEmptyFdQueue) {
		t.Fatalf("Err() = %v, want ErrEmptyFdQueue", err)
	}
}
