// Package wl is the generated client API for a fixed set of core
// Wayland interfaces. Each file pairs a small generated object type
// (implementing wire.Object, named <name>Object) with a hand-stable
// wrapper exposing idiomatic Go methods and public callback fields
// for events. These files are maintained by hand: the go:generate
// line below runs cmd/wlgen, which writes a skeleton to
// generated.go.proposed for comparison and never rewrites them. It
// reads ../protocol/wayland.xml, which this repository does not
// contain.
package wl

//go:generate sh -c "go run github.com/kestrelwl/wl/cmd/wlgen -client -xml ../protocol/wayland.xml > generated.go.proposed"

// Interface names a protocol interface and the version a compositor
// advertises it at.
type Interface struct {
	Name    string
	Version uint32
}

// Is reports whether i names interfaceName at a version at least
// minVersion.
func (i Interface) Is(interfaceName string, minVersion uint32) bool {
	return i.Name == interfaceName && i.Version >= minVersion
}
