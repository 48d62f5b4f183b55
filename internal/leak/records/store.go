package records

// Store is the registry of live allocation records: an intrusive doubly
// linked chain with a single head reference pointing at the most recently
// inserted record.
//
// The zero value is an empty store.
type Store struct {
	head *Record
	live int
}

// Len returns the number of records currently on the chain. This is the
// live-allocation counter; it always equals the chain length.
func (s *Store) Len() int {
	return s.live
}

// Head returns the most recently inserted record, or nil when the store
// is empty.
func (s *Store) Head() *Record {
	return s.head
}

// Insert threads r at the head of the chain. Insertion order is LIFO:
// the head is always the newest live allocation.
func (s *Store) Insert(r *Record) {
	s.live++
	r.older = s.head
	r.newer = nil
	if s.head != nil {
		s.head.newer = r
	}
	s.head = r
}

// Remove unthreads r from the chain, patching its neighbors so the
// remaining records stay fully linked. Handles removal from the head,
// the tail, the middle, and the singleton case.
func (s *Store) Remove(r *Record) {
	s.live--
	if r.older != nil {
		r.older.newer = r.newer
	} else if r == s.head {
		// r was both head and tail: the chain becomes empty or, after a
		// newer sibling was already removed, restarts at r.newer.
		s.head = r.newer
	}
	if r.newer != nil {
		r.newer.older = r.older
	} else if r == s.head {
		s.head = r.older
	}
	r.older = nil
	r.newer = nil
}

// ForEach walks the chain newest-to-oldest, calling fn for each record
// until fn returns false. The chain must not be mutated during the walk.
func (s *Store) ForEach(fn func(*Record) bool) {
	for r := s.head; r != nil; r = r.older {
		if !fn(r) {
			return
		}
	}
}
