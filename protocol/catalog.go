package protocol

import (
	"fmt"
	"sync"

	"github.com/kestrelwl/wl/wire"
)

// FieldKind enumerates the wire argument kinds the codec recognizes.
type FieldKind int

const (
	KindUint FieldKind = iota
	KindInt
	KindFixed
	KindString
	KindArray
	KindNewID
	KindObject
	KindFD
	KindEnum
	KindBitfield
)

func (k FieldKind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindInt:
		return "int"
	case KindFixed:
		return "fixed"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindNewID:
		return "new_id"
	case KindObject:
		return "object"
	case KindFD:
		return "fd"
	case KindEnum:
		return "enum"
	case KindBitfield:
		return "bitfield"
	default:
		return "unknown"
	}
}

// Enum describes the set of wire values a KindEnum field may carry.
// Closed enums (most of the protocol's) reject any tag not in Values
// during dispatch; open enums, such as wl_shm.format, which vendor
// extensions add DRM fourcc-based values to well beyond the ones this
// package names, accept anything.
type Enum struct {
	Name   string
	Closed bool
	Values []uint32
}

// Field names one argument of a message in declaration order. Enum is
// non-nil only for KindEnum fields, and only needs populating for
// those a generated interface wants validated against a closed set.
type Field struct {
	Name string
	Kind FieldKind
	Enum *Enum
}

// Message describes one request or event: its name and ordered
// argument list. Its position within Descriptor.Requests or
// Descriptor.Events is its opcode.
type Message struct {
	Name   string
	Fields []Field
}

// Direction distinguishes a client->server request from a
// server->client event.
type Direction int

const (
	RequestDirection Direction = iota
	EventDirection
)

// Descriptor is the static, load-once catalog entry for one
// interface: its name, supported version, and the ordered
// request/event lists the codec consults by opcode position.
// Reordering a Requests or Events entry is a breaking wire change;
// renaming one is not, since the codec never looks messages up by
// name.
type Descriptor struct {
	InterfaceName    string
	InterfaceVersion uint32
	Requests         []Message
	Events           []Message
}

// OpCount returns the number of requests or events this interface
// declares.
func (d *Descriptor) OpCount(dir Direction) int {
	if dir == RequestDirection {
		return len(d.Requests)
	}
	return len(d.Events)
}

// FieldList returns the argument records for the message identified
// by opcode, or an error if opcode is out of range.
func (d *Descriptor) FieldList(dir Direction, opcode uint16) ([]Field, error) {
	msgs := d.Events
	if dir == RequestDirection {
		msgs = d.Requests
	}
	if int(opcode) >= len(msgs) {
		return nil, fmt.Errorf("protocol: %v: opcode %v out of range (have %v)", d.InterfaceName, opcode, len(msgs))
	}
	return msgs[opcode].Fields, nil
}

// MethodName returns the declared name of the message identified by
// opcode, or "" if opcode is out of range.
func (d *Descriptor) MethodName(dir Direction, opcode uint16) string {
	msgs := d.Events
	if dir == RequestDirection {
		msgs = d.Requests
	}
	if int(opcode) >= len(msgs) {
		return ""
	}
	return msgs[opcode].Name
}

// ValidateEnum checks v against the closed-enum table, if any, of the
// field at position argIndex in the message identified by (dir,
// opcode). It is a no-op if that field carries no enum table or an
// open one, and returns the FieldList lookup error if opcode is out
// of range.
func (d *Descriptor) ValidateEnum(dir Direction, opcode uint16, argIndex int, v uint32) error {
	fields, err := d.FieldList(dir, opcode)
	if err != nil {
		return err
	}
	if argIndex < 0 || argIndex >= len(fields) {
		return nil
	}

	e := fields[argIndex].Enum
	if e == nil || !e.Closed {
		return nil
	}
	for _, allowed := range e.Values {
		if allowed == v {
			return nil
		}
	}
	return wire.UnknownEnumTagError{Interface: d.InterfaceName, Enum: e.Name, Value: v}
}

// Name returns the interface's textual name, e.g. "wl_compositor".
func (d *Descriptor) Name() string {
	return d.InterfaceName
}

// Version returns the interface's supported version number.
func (d *Descriptor) Version() uint32 {
	return d.InterfaceVersion
}

var (
	catalogMu sync.RWMutex
	catalog   = map[string]*Descriptor{}
)

// Register adds d to the global catalog under its interface name. It
// is intended to be called once per interface from an init function
// in generated code, but takes the catalog lock like Lookup does
// since a process may construct more than one Display concurrently.
func Register(d *Descriptor) {
	catalogMu.Lock()
	defer catalogMu.Unlock()
	catalog[d.InterfaceName] = d
}

// Lookup returns the registered Descriptor for name, if any.
func Lookup(name string) (*Descriptor, bool) {
	catalogMu.RLock()
	defer catalogMu.RUnlock()
	d, ok := catalog[name]
	return d, ok
}
