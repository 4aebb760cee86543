package wire

import (
	"errors"
	"fmt"
)

// ErrSocketClosed is returned by ReadMessage when the peer has closed
// the connection in an orderly fashion. It is terminal: the connection
// should be discarded.
var ErrSocketClosed = errors.New("wayland: socket closed")

// ErrOversizedFrame is returned by ReadMessage when a frame header's
// size field is smaller than the 8-byte header itself or is not a
// multiple of 4.
var ErrOversizedFrame = errors.New("wayland: malformed frame size")

// ErrStringTooLong is returned when a string argument is too long to
// be represented by the 32-bit length-prefix word (the length,
// including the trailing NUL, must fit in a uint32).
var ErrStringTooLong = errors.New("wayland: string exceeds maximum wire length")

// ErrEndOfStream is returned when decoding runs past the end of a
// message body. This indicates either a compositor bug or that the
// connection has become desynchronized; it is fatal for the
// connection.
var ErrEndOfStream = errors.New("wayland: unexpected end of message body")

// ErrEmptyFdQueue is returned by Conn.TakeFD when no file descriptors
// are queued. It indicates a mismatch between a message's declared fd
// arguments and the number of TakeFD calls made for it.
var ErrEmptyFdQueue = errors.New("wayland: no file descriptor queued")

// UnknownEnumTagError is returned when a closed enum argument decodes
// to a value the enum does not declare. Open enums never produce this
// error.
type UnknownEnumTagError struct {
	Interface string
	Enum      string
	Value     uint32
}

func (err UnknownEnumTagError) Error() string {
	return fmt.Sprintf("unknown %v.%v enum tag: %v", err.Interface, err.Enum, err.Value)
}

// UnknownOpError is returned by Object.Dispatch if it is given a
// message with an invalid opcode.
type UnknownOpError struct {
	Interface string
	Type      string
	Op        uint16
}

func (err UnknownOpError) Error() string {
	return fmt.Sprintf("unknown %v opcode for %v: %v", err.Type, err.Interface, err.Op)
}

// UnknownSenderIDError is returned by an attempt to dispatch an
// incoming message that indicates a method call on an object that the
// Display doesn't know about.
type UnknownSenderIDError struct {
	Msg *MessageBuffer
}

func (err UnknownSenderIDError) Error() string {
	return fmt.Sprintf("unknown sender object ID: %v", err.Msg.Sender())
}
