// Package shm simulates the kernel's shm_map/shm_unmap contract using a
// real memfd_create-backed mmap, via golang.org/x/sys/unix, so the SHM
// lifecycle invariant (exactly one unmap per successful map) is exercised
// against actual mapped memory rather than a plain byte slice standing in
// for one.
package shm

import (
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// ShmError gives mmap/memfd_create failures the same operation+details+cause
// shape the reference compositor's VideoError uses, so a caller can log a
// structured field set instead of parsing an error string.
type ShmError struct {
	Operation string
	Details   string
	Err       error
}

func (e *ShmError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("shm %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("shm %s failed: %s", e.Operation, e.Details)
}

func (e *ShmError) Unwrap() error { return e.Err }

// ErrInvalidSize is returned by Create for a non-positive size; a client
// requesting zero or negative bytes gets a comparable sentinel rather than
// a bare string.
var ErrInvalidSize = &ShmError{Operation: "create", Details: "size must be positive"}

// Region is a mapped shared-memory surface. Size is fixed at creation time
// by agreement between client and compositor (w*h*4 bytes).
type Region struct {
	ID     string
	fd     int
	data   []byte
	mapped bool

	lastHash  uint64
	hashValid bool
}

// ContentChanged reports whether the region's bytes differ from the last
// call to ContentChanged (always true the first time), so PRESENT can skip
// damaging a layer the client re-presented without actually writing to.
func (reg *Region) ContentChanged() bool {
	sum := xxhash.Sum64(reg.data)
	changed := !reg.hashValid || sum != reg.lastHash
	reg.lastHash = sum
	reg.hashValid = true
	return changed
}

// Registry tracks outstanding regions so double-unmap and leaked maps can be
// asserted against in tests.
type Registry struct {
	mu      sync.Mutex
	regions map[string]*Region
}

func NewRegistry() *Registry {
	return &Registry{regions: make(map[string]*Region)}
}

// Create allocates a new anonymous memory-backed region of size bytes and
// returns its id and mapped slice. The id stands in for the kernel-assigned
// shm_id of the original protocol.
func (r *Registry) Create(size int) (*Region, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	fd, err := unix.MemfdCreate("compositord-shm", 0)
	if err != nil {
		return nil, &ShmError{Operation: "create", Details: "memfd_create", Err: err}
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		return nil, &ShmError{Operation: "create", Details: "ftruncate", Err: err}
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, &ShmError{Operation: "create", Details: "mmap", Err: err}
	}
	reg := &Region{ID: uuid.NewString(), fd: fd, data: data, mapped: true}
	r.mu.Lock()
	r.regions[reg.ID] = reg
	r.mu.Unlock()
	return reg, nil
}

// Map returns a region previously created elsewhere in this process, by
// id. In this simulation regions never leave the process, so Map is a
// registry lookup;
// a real kernel boundary would mmap the fd handed across IPC instead.
func (r *Registry) Map(id string) (*Region, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regions[id]
	return reg, ok && reg.mapped
}

// Unmap releases a region's mapping exactly once; a second call is a
// no-op.
func (r *Registry) Unmap(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regions[id]
	if !ok || !reg.mapped {
		return nil
	}
	reg.mapped = false
	err := unix.Munmap(reg.data)
	unix.Close(reg.fd)
	delete(r.regions, id)
	return err
}

// Bytes returns the mapped region's backing slice for direct pixel copy.
func (reg *Region) Bytes() []byte { return reg.data }

// Mapped reports whether this region has not yet been unmapped.
func (reg *Region) Mapped() bool { return reg.mapped }
