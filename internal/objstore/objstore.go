// Package objstore maps live object IDs to their wire.Object, on
// behalf of a connection's dispatch loop. ID assignment itself is the
// idpool package's job; Store only tracks which object currently owns
// which ID.
package objstore

import "github.com/kestrelwl/wl/wire"

type Store struct {
	objects map[uint32]wire.Object
}

func New() *Store {
	return &Store{
		objects: make(map[uint32]wire.Object),
	}
}

// Add registers obj under id, which must already have been allocated
// by an idpool.Pool (or be the reserved display ID 1).
func (s *Store) Add(id uint32, obj wire.Object) {
	obj.SetID(id)
	s.objects[id] = obj
}

func (s *Store) Get(id uint32) wire.Object {
	return s.objects[id]
}

// Delete removes id from the store and marks its object as no longer
// live. It is a no-op if id is not present, matching the idempotence
// required of delete_id handling.
func (s *Store) Delete(id uint32) {
	obj := s.objects[id]
	if obj == nil {
		return
	}
	delete(s.objects, id)
	obj.Delete()
}
