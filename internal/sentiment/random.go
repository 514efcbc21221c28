package sentiment

import "unicode/utf16"

const (
	fnvOffset32 uint32 = 2166136261
	fnvPrime32  uint32 = 16777619
	streamStep  uint32 = 0x6D2B79F5
)

// Stream is a deterministic float source keyed by a string. The same seed
// always yields the same sequence. It is not safe for concurrent use.
type Stream struct {
	state uint32
}

// NewStream hashes seed with 32-bit FNV-1a over its UTF-16 code units and
// uses the hash as the initial generator state.
func NewStream(seed string) *Stream {
	h := fnvOffset32
	for _, unit := range utf16.Encode([]rune(seed)) {
		h ^= uint32(unit)
		h *= fnvPrime32
	}
	return &Stream{state: h}
}

// Float returns the next value in [0,1).
func (s *Stream) Float() float64 {
	s.state += streamStep
	h := s.state
	t := (h ^ (h >> 15)) * (1 | h)
	t ^= t + (t^(t>>7))*(61|t)
	return float64(t^(t>>14)) / 4294967296
}

// Intn returns the next value in [0,n).
func (s *Stream) Intn(n int) int {
	return int(s.Float() * float64(n))
}
