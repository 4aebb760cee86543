package wl

import (
	"errors"
	"fmt"

	"github.com/kestrelwl/wl/internal/ev"
)

// RequiredInterface names a global the caller needs bound, the
// minimum version acceptable, and the function that performs the
// actual bind once a matching global is seen. Bind should call the
// appropriate Bind<Name> function (BindCompositor, BindShm, and so
// on) and return its bound object's ID via Object().ID().
type RequiredInterface struct {
	Name    string
	Version uint32
	Bind    func(display *Display, name uint32) uint32
}

// OutdatedCompositorProtocolError is returned by RegisterGlobals when
// the compositor advertises a required interface at a version lower
// than the caller asked for.
type OutdatedCompositorProtocolError struct {
	Interface string
	Have      uint32
	Want      uint32
}

func (err OutdatedCompositorProtocolError) Error() string {
	return fmt.Sprintf("wayland: compositor offers %s version %d, need at least %d", err.Interface, err.Have, err.Want)
}

// RegisterGlobals drives the registry bootstrap handshake: it fetches
// the registry, binds each RequiredInterface as its matching global
// event arrives, and waits for a sync callback to confirm every
// global the compositor intends to advertise up front has been seen.
//
// It returns one object ID per entry of required, in the same order;
// an entry is 0 if the compositor never advertised a matching global.
// If a matching global is advertised below the version required,
// RegisterGlobals returns as soon as that mismatch is observed,
// without waiting for the sync callback.
//
// A global_remove event for an interface this function is watching
// is intentionally ignored: deciding what that means for a bind still
// in flight during bootstrap is left unresolved, matching the
// connection's general handling of compositor-initiated races during
// startup.
func RegisterGlobals(display *Display, required []RequiredInterface) ([]uint32, error) {
	registry := display.GetRegistry()

	ids := make([]uint32, len(required))
	var bootErr error

	registry.onGlobal = func(name uint32, iface string, version uint32) {
		if bootErr != nil {
			return
		}
		for i, req := range required {
			if ids[i] != 0 || req.Name != iface {
				continue
			}
			if version < req.Version {
				bootErr = OutdatedCompositorProtocolError{Interface: iface, Have: version, Want: req.Version}
				return
			}
			ids[i] = req.Bind(display, name)
		}
	}
	defer func() { registry.onGlobal = nil }()

	done := make(chan struct{})
	display.Sync(func(uint32) { close(done) })

	var errs []error
	for {
		select {
		case <-done:
			if bootErr != nil {
				return nil, bootErr
			}
			return ids, errors.Join(errs...)

		case queue := <-display.queue.Get():
			errs = append(errs, ev.Flush(queue)...)
		}

		if bootErr != nil {
			return nil, bootErr
		}
	}
}
