package protocol_test

import (
	"testing"

	"github.com/kestrelwl/wl/protocol"
)

func TestDescriptorFieldListBounds(t *testing.T) {
	d := &protocol.Descriptor{
		InterfaceName:    "wl_test",
		InterfaceVersion: 1,
		Requests: []protocol.Message{
			{Name: "foo", Fields: []protocol.Field{{Name: "x", Kind: protocol.KindUint}}},
		},
	}

	fields, err := d.FieldList(protocol.RequestDirection, 0)
	if err != nil {
		t.Fatalf("FieldList(0): %v", err)
	}
	if len(fields) != 1 || fields[0].Name != "x" {
		t.Fatalf("FieldList(0) = %+v", fields)
	}

	if _, err := d.FieldList(protocol.RequestDirection, 1); err == nil {
		t.Fatal("FieldList(1) should fail: out of range")
	}
}

func TestRegisterAndLookup(t *testing.T) {
	d := &protocol.Descriptor{InterfaceName: "wl_catalog_test", InterfaceVersion: 3}
	protocol.Register(d)

	got, ok := protocol.Lookup("wl_catalog_test")
	if !ok {
		t.Fatal("Lookup failed to find registered descriptor")
	}
	if got.Version() != 3 {
		t.Fatalf("Version() = %v, want 3", got.Version())
	}
}
