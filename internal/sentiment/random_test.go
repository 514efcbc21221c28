package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStream_KnownSequence(t *testing.T) {
	s := NewStream("12345")

	assert.InDelta(t, 0.7282438434194773, s.Float(), 1e-15)
	assert.InDelta(t, 0.6955078737810254, s.Float(), 1e-15)
	assert.InDelta(t, 0.9925868620630354, s.Float(), 1e-15)
}

func TestStream_SameSeedSameSequence(t *testing.T) {
	a := NewStream("post-42")
	b := NewStream("post-42")

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float(), b.Float())
	}
}

func TestStream_DifferentSeedsDiverge(t *testing.T) {
	a := NewStream("post-1")
	b := NewStream("post-2")

	assert.NotEqual(t, a.Float(), b.Float())
}

func TestStream_FloatInUnitInterval(t *testing.T) {
	s := NewStream("range")
	for i := 0; i < 10000; i++ {
		v := s.Float()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestStream_Intn(t *testing.T) {
	s := NewStream("intn")
	for i := 0; i < 1000; i++ {
		v := s.Intn(5)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 5)
	}
}
