package value

import "sync"

// ObjType is the type discriminator carried in every object header.
type ObjType byte

const (
	// ObjStringType marks interned strings, the only object type the
	// present core allocates.
	ObjStringType ObjType = iota
)

// Obj is the common header of heap objects. Concrete object structs
// embed it as their first field, so an *Obj and the concrete pointer
// refer to the same address.
type Obj struct {
	Type ObjType
}

// ObjString is an interned string object. Two interned strings with the
// same contents are the same pointer, so string equality in the VM is
// pointer equality.
type ObjString struct {
	Obj
	Str string
}

// internPool is the process-wide deduplicating string store. Hosts may
// run several VMs concurrently, so the pool is guarded by a mutex.
// Entries are never evicted; the pool also keeps every boxed string
// reachable for the lifetime of the process.
//
// Deduplication is a linear search. Program-text strings are few, so
// the simplicity wins over a map keyed by contents.
type internPool struct {
	mu      sync.Mutex
	entries []*ObjString
}

var pool internPool

// Intern returns the pool's canonical object for s, creating it on first
// sight. The returned pointer is stable for the process lifetime and
// compares equal to every other interning of the same contents.
func Intern(s string) *ObjString {
	pool.mu.Lock()
	defer pool.mu.Unlock()

	for _, entry := range pool.entries {
		if entry.Str == s {
			return entry
		}
	}
	entry := &ObjString{Obj: Obj{Type: ObjStringType}, Str: s}
	pool.entries = append(pool.entries, entry)
	return entry
}

// InternCount returns the number of distinct strings interned so far.
func InternCount() int {
	pool.mu.Lock()
	defer pool.mu.Unlock()
	return len(pool.entries)
}
