package wire

import (
	"errors"
	"fmt"
	"math"
	"os"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/kestrelwl/wl/internal/bin"
)

// MessageBuilder is a message that is under construction. It
// implements serialize_args/serialize: every Write* method appends
// one field in declaration order, and Build flushes the accumulated
// frame and any attached file descriptors in a single WriteMsgUnix
// call.
type MessageBuilder struct {
	// Method is the name of the method being called. It is included
	// purely for debugging purposes.
	Method string

	// Args is the original set of arguments passed to the function
	// from which this MessageBuilder was generated. It is included
	// purely for debugging purposes.
	Args []any

	sender Object
	op     uint16
	data   growBuffer
	fds    []int
	err    error
}

// NewMessage starts building a message with opcode op on behalf of
// sender.
func NewMessage(sender Object, op uint16) *MessageBuilder {
	return &MessageBuilder{
		sender: sender,
		op:     op,
	}
}

func (mb *MessageBuilder) Sender() Object {
	return mb.sender
}

func (mb *MessageBuilder) Op() uint16 {
	return mb.op
}

func (mb *MessageBuilder) WriteInt(v int32) {
	if mb.err != nil {
		return
	}
	mb.err = bin.Write(&mb.data, v)
}

func (mb *MessageBuilder) WriteUint(v uint32) {
	if mb.err != nil {
		return
	}
	mb.err = bin.Write(&mb.data, v)
}

func (mb *MessageBuilder) WriteObject(v Object) {
	var id uint32
	if !isNil(v) {
		id = v.ID()
	}
	mb.WriteUint(id)
}

func (mb *MessageBuilder) WriteNewID(v NewID) {
	if mb.err != nil {
		return
	}

	mb.WriteString(v.Interface)
	mb.WriteUint(v.Version)
	mb.WriteUint(v.ID)
}

func (mb *MessageBuilder) WriteFixed(v Fixed) {
	if mb.err != nil {
		return
	}
	mb.err = bin.Write(&mb.data, v)
}

// WriteString writes a length-prefixed, NUL-terminated, 4-byte-padded
// string. The length word counts bytes including the trailing NUL.
func (mb *MessageBuilder) WriteString(v string) {
	if mb.err != nil {
		return
	}

	length := len(v) + 1
	if length > math.MaxUint32 {
		mb.err = fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(v))
		return
	}

	pad := padding(uint32(length))
	bin.Write(&mb.data, uint32(length))
	mb.data.WriteString(v)
	mb.data.WriteByte(0)
	for i := uint32(0); i < pad; i++ {
		mb.data.WriteByte(0)
	}
}

// WriteArray writes a length-prefixed, 4-byte-padded array of raw
// bytes. The length word counts bytes, not elements.
func (mb *MessageBuilder) WriteArray(v []byte) {
	if mb.err != nil {
		return
	}

	pad := padding(uint32(len(v)))
	bin.Write(&mb.data, uint32(len(v)))
	mb.data.Write(v)
	for i := uint32(0); i < pad; i++ {
		mb.data.WriteByte(0)
	}
}

// WriteFile queues a file descriptor to be sent alongside the message
// as ancillary SCM_RIGHTS data. It contributes no words to the body.
func (mb *MessageBuilder) WriteFile(v *os.File) {
	fd, err := unix.Dup(int(v.Fd()))
	if err != nil {
		mb.err = err
		return
	}

	if len(mb.fds) == 0 {
		runtime.SetFinalizer(mb, (*MessageBuilder).close)
	}

	mb.fds = append(mb.fds, fd)
}

// Build finishes the message, prepending the 8-byte header, and sends
// it to c in a single sendmsg call carrying any queued file
// descriptors as one SCM_RIGHTS ancillary block. The MessageBuilder
// must not be reused after this call.
func (mb *MessageBuilder) Build(c *Conn) error {
	if mb.err != nil {
		return mb.err
	}

	length := uint32(8 + mb.data.Len())

	var header growBuffer
	header.Grow(2)
	bin.Write(&header, mb.sender.ID())
	bin.Write(&header, (length<<16)|uint32(mb.op))

	frame := append(header.Bytes(), mb.data.Bytes()...)
	oob := unix.UnixRights(mb.fds...)

	debugPrintf(" -> %v", mb)
	_, _, mb.err = c.conn.WriteMsgUnix(frame, oob, nil)
	return mb.err
}

func (mb *MessageBuilder) close() {
	errs := make([]error, 0, len(mb.fds))
	for _, fd := range mb.fds {
		errs = append(errs, unix.Close(fd))
	}
	if mb.err == nil {
		mb.err = errors.Join(errs...)
	}
	mb.fds = nil
	runtime.SetFinalizer(mb, nil)
}

func (mb *MessageBuilder) String() string {
	args := make([]string, 0, len(mb.Args))
	for _, arg := range mb.Args {
		switch arg := arg.(type) {
		case string:
			args = append(args, strconv.Quote(arg))
		case *os.File:
			args = append(args, fmt.Sprint(arg.Fd()))
		default:
			args = append(args, fmt.Sprint(arg))
		}
	}

	return fmt.Sprintf("%v.%v(%v)", mb.sender, mb.Method, strings.Join(args, ", "))
}

// isNil reports whether v is a nil interface or a nil concrete value
// (e.g. a nil *Surface) wrapped in one; the latter compares unequal to
// a bare nil interface but still names no live object.
func isNil(v Object) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
