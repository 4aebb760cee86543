package wire

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kestrelwl/wl/internal/bin"
)

// MessageBuffer holds message data that has been read from the socket
// but not yet decoded. It implements deserialize_args: each Read*
// method consumes one field in declaration order.
type MessageBuffer struct {
	sender  uint32
	op      uint16
	size    uint16
	data    bytes.Reader
	fds     []int
	fdindex int
	err     error
	args    []any
}

// ReadMessage reads one frame's header and body from c, along with any
// file descriptors attached via ancillary data.
func ReadMessage(c *Conn) (*MessageBuffer, error) {
	var mr MessageBuffer

	sender, err := bin.Read[uint32](c)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrSocketClosed
		}
		return nil, fmt.Errorf("read message sender: %w", err)
	}
	mr.sender = sender

	so, err := bin.Read[uint32](c)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrSocketClosed
		}
		return nil, fmt.Errorf("read message size and opcode: %w", err)
	}
	size := so >> 16
	if size < 8 || size%4 != 0 {
		return nil, ErrOversizedFrame
	}
	mr.size = uint16(size)
	mr.op = uint16(so & 0xFFFF)

	body := make([]byte, mr.size-8)
	if len(body) > 0 {
		_, err = io.ReadFull(c, body)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, ErrSocketClosed
			}
			return nil, fmt.Errorf("read message body: %w", err)
		}
	}

	mr.fds = c.takeFDs()
	mr.data.Reset(body)

	return &mr, nil
}

// Sender is the object ID of the sender of the message.
func (r *MessageBuffer) Sender() uint32 {
	return r.sender
}

// Op is the opcode of the message.
func (r *MessageBuffer) Op() uint16 {
	return r.op
}

// Size is the total size of the message, including the 8-byte header.
func (r *MessageBuffer) Size() uint16 {
	return r.size
}

// Err returns the first decode error encountered, or nil if the
// message was fully consumed without error. Running off the end of
// the body surfaces as ErrEndOfStream.
func (r *MessageBuffer) Err() error {
	if errors.Is(r.err, io.EOF) {
		return ErrEndOfStream
	}
	return r.err
}

func (r *MessageBuffer) ReadInt() (v int32) {
	if r.err != nil {
		return
	}

	v, r.err = bin.Read[int32](&r.data)
	r.args = append(r.args, v)
	return v
}

func (r *MessageBuffer) ReadUint() (v uint32) {
	if r.err != nil {
		return
	}

	v, r.err = bin.Read[uint32](&r.data)
	r.args = append(r.args, v)
	return v
}

func (r *MessageBuffer) ReadNewID() NewID {
	return NewID{
		Interface: r.ReadString(),
		Version:   r.ReadUint(),
		ID:        r.ReadUint(),
	}
}

func (r *MessageBuffer) ReadFixed() (v Fixed) {
	if r.err != nil {
		return
	}

	v, r.err = bin.Read[Fixed](&r.data)
	r.args = append(r.args, v)
	return v
}

// ReadString decodes a length-prefixed, NUL-terminated, 4-byte-padded
// string. The returned string is a copy and stays valid after later
// reads.
func (r *MessageBuffer) ReadString() string {
	if r.err != nil {
		return ""
	}

	length := r.ReadUint()
	if r.err != nil {
		return ""
	}
	if length == 0 {
		r.err = errors.New("wayland: zero-length string argument")
		return ""
	}
	pad := padding(length)

	buf := make([]byte, length+pad)
	_, r.err = io.ReadFull(&r.data, buf)
	if r.err != nil {
		if errors.Is(r.err, io.EOF) || errors.Is(r.err, io.ErrUnexpectedEOF) {
			r.err = ErrEndOfStream
		}
		return ""
	}
	if buf[length-1] != 0 {
		r.err = errors.New("wayland: string is not NUL-terminated")
		return ""
	}

	v := string(buf[:length-1])
	r.args = append(r.args, v)
	return v
}

// ReadArray decodes a length-prefixed, 4-byte-padded byte array. The
// returned slice is a freshly allocated copy owned by the caller.
func (r *MessageBuffer) ReadArray() []byte {
	if r.err != nil {
		return nil
	}

	length := r.ReadUint()
	if r.err != nil {
		return nil
	}
	pad := padding(length)

	buf := make([]byte, length+pad)
	_, r.err = io.ReadFull(&r.data, buf)
	if r.err != nil {
		if errors.Is(r.err, io.EOF) || errors.Is(r.err, io.ErrUnexpectedEOF) {
			r.err = ErrEndOfStream
		}
		return nil
	}

	v := buf[:length]
	r.args = append(r.args, v)
	return v
}

// ReadFile pops the next queued file descriptor for this message, in
// field order.
func (r *MessageBuffer) ReadFile() *os.File {
	if r.err != nil {
		return nil
	}

	if r.fdindex >= len(r.fds) {
		r.err = ErrEmptyFdQueue
		return nil
	}

	f := os.NewFile(uintptr(r.fds[r.fdindex]), "")
	r.fdindex++
	r.args = append(r.args, f)
	return f
}

func (r *MessageBuffer) Debug(sender Object) string {
	args := make([]string, 0, len(r.args))
	for _, arg := range r.args {
		switch arg := arg.(type) {
		case string:
			args = append(args, strconv.Quote(arg))
		case *os.File:
			args = append(args, fmt.Sprint(arg.Fd()))
		default:
			args = append(args, fmt.Sprint(arg))
		}
	}

	method := sender.MethodName(r.op)
	return fmt.Sprintf("%v.%v(%v)", sender, method, strings.Join(args, ", "))
}
