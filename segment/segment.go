// Package segment manages the segmented memory of the machine: a growable
// table of word arrays addressed by 32-bit handles, a LIFO pool of freed
// handles, and the distinguished segment zero holding the running program.
//
// Every access is checked. A handle that was never mapped, a handle whose
// segment has been unmapped, and an offset past the end of a segment are
// reported as errors wrapping the umerrors memory sentinels.
package segment

import (
	"fmt"

	"github.com/colorfulnotion/um/log"
	"github.com/colorfulnotion/um/umerrors"
)

const (
	// DefaultCapacity is the initial number of slots in the segment table.
	DefaultCapacity = 1000
	// growthFactor multiplies the table capacity when every slot is in use.
	growthFactor = 10
)

type slot struct {
	words      []uint32
	live       bool
	generation uint32 // number of times this slot has been mapped
}

// Manager owns all segments of one machine. It is not safe for concurrent use.
type Manager struct {
	slots    []slot
	next     uint32   // next never-used handle
	recycled []uint32 // freed handles, reused last-in first-out
	live     int
	torn     bool
}

// Stats summarizes table usage.
type Stats struct {
	Live     int    // mapped segments, including segment zero
	Next     uint32 // handles ever issued
	Recycled int    // handles waiting for reuse
	Capacity int    // slots allocated in the table
}

// New installs program as segment zero. capacity <= 0 selects DefaultCapacity.
func New(program []uint32, capacity int) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	m := &Manager{
		slots: make([]slot, capacity),
		next:  1,
		live:  1,
	}
	m.slots[0] = slot{words: program, live: true, generation: 1}
	return m
}

// Map allocates a zero-filled segment of size words and returns its handle.
// Recycled handles are preferred over growing the table.
func (m *Manager) Map(size uint32) (uint32, error) {
	if m.torn {
		return 0, umerrors.ErrMTornDown
	}
	var handle uint32
	if n := len(m.recycled); n > 0 {
		handle = m.recycled[n-1]
		m.recycled = m.recycled[:n-1]
	} else {
		if int(m.next) == len(m.slots) {
			m.grow()
		}
		handle = m.next
		m.next++
	}
	s := &m.slots[handle]
	s.words = make([]uint32, size)
	s.live = true
	s.generation++
	m.live++
	if log.ModuleEnabled(log.SegmentMonitoring) {
		log.Trace(log.SegmentMonitoring, "map", "handle", handle, "size", size, "gen", s.generation)
	}
	return handle, nil
}

func (m *Manager) grow() {
	bigger := make([]slot, len(m.slots)*growthFactor)
	copy(bigger, m.slots)
	log.Debug(log.SegmentMonitoring, "segment table grown", "from", len(m.slots), "to", len(bigger))
	m.slots = bigger
}

// Unmap releases the segment at handle and makes handle available for reuse.
func (m *Manager) Unmap(handle uint32) error {
	if handle == 0 {
		return umerrors.ErrMUnmapZero
	}
	s, err := m.resolve(handle)
	if err != nil {
		return err
	}
	s.words = nil
	s.live = false
	m.live--
	m.recycled = append(m.recycled, handle)
	if log.ModuleEnabled(log.SegmentMonitoring) {
		log.Trace(log.SegmentMonitoring, "unmap", "handle", handle, "gen", s.generation)
	}
	return nil
}

// Load returns word offset of segment handle.
func (m *Manager) Load(handle, offset uint32) (uint32, error) {
	s, err := m.resolve(handle)
	if err != nil {
		return 0, err
	}
	if offset >= uint32(len(s.words)) {
		return 0, outOfBounds(handle, offset, len(s.words))
	}
	return s.words[offset], nil
}

// Store writes value at word offset of segment handle.
func (m *Manager) Store(handle, offset, value uint32) error {
	s, err := m.resolve(handle)
	if err != nil {
		return err
	}
	if offset >= uint32(len(s.words)) {
		return outOfBounds(handle, offset, len(s.words))
	}
	s.words[offset] = value
	return nil
}

// LoadProgram replaces segment zero with a copy of segment handle. Handle 0
// is a no-op. The program counter is the caller's business.
func (m *Manager) LoadProgram(handle uint32) error {
	if handle == 0 {
		return nil
	}
	s, err := m.resolve(handle)
	if err != nil {
		return err
	}
	dup := make([]uint32, len(s.words))
	copy(dup, s.words)
	m.slots[0].words = dup
	m.slots[0].generation++
	if log.ModuleEnabled(log.SegmentMonitoring) {
		log.Trace(log.SegmentMonitoring, "program replaced", "from", handle, "words", len(dup))
	}
	return nil
}

// Program returns segment zero. The slice is only valid until the next LoadProgram.
func (m *Manager) Program() []uint32 {
	if m.torn {
		return nil
	}
	return m.slots[0].words
}

// Len returns the number of words in segment handle.
func (m *Manager) Len(handle uint32) (int, error) {
	s, err := m.resolve(handle)
	if err != nil {
		return 0, err
	}
	return len(s.words), nil
}

// Generation reports how many times the slot behind handle has been mapped
// (for segment zero: installed). It is 0 for a handle never issued.
func (m *Manager) Generation(handle uint32) uint32 {
	if handle >= m.next || int(handle) >= len(m.slots) {
		return 0
	}
	return m.slots[handle].generation
}

// IsMapped reports whether handle currently names a live segment.
func (m *Manager) IsMapped(handle uint32) bool {
	_, err := m.resolve(handle)
	return err == nil
}

// Live counts mapped segments, segment zero included.
func (m *Manager) Live() int {
	return m.live
}

func (m *Manager) Stats() Stats {
	return Stats{
		Live:     m.live,
		Next:     m.next,
		Recycled: len(m.recycled),
		Capacity: len(m.slots),
	}
}

// Teardown drops every segment, segment zero included, and the recycled pool.
// Further calls on the manager fail with ErrMTornDown.
func (m *Manager) Teardown() {
	if m.torn {
		return
	}
	log.Debug(log.SegmentMonitoring, "teardown", "live", m.live, "issued", m.next, "recycled", len(m.recycled))
	m.slots = nil
	m.recycled = nil
	m.next = 0
	m.live = 0
	m.torn = true
}

func (m *Manager) resolve(handle uint32) (*slot, error) {
	if m.torn {
		return nil, umerrors.ErrMTornDown
	}
	if handle >= m.next {
		return nil, fmt.Errorf("handle %d (next %d): %w", handle, m.next, umerrors.ErrMInvalidHandle)
	}
	s := &m.slots[handle]
	if !s.live {
		return nil, fmt.Errorf("handle %d (gen %d): %w", handle, s.generation, umerrors.ErrMUnmapped)
	}
	return s, nil
}

func outOfBounds(handle, offset uint32, length int) error {
	return fmt.Errorf("handle %d offset %d (len %d): %w", handle, offset, length, umerrors.ErrMOutOfBounds)
}
