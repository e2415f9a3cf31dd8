// Package randsource provides the deterministic, serializable random
// source used for library shuffles and AI playout simulations. A plain
// math/rand source cannot be serialized portably; this wraps a ChaCha20
// keystream, whose entire state is one seed plus one counter, as the
// generator instead.
package randsource

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/chacha20"
)

// Source is a deterministic RNG. Two Sources constructed with the same
// seed and advanced the same number of times produce identical output,
// and a Source's state round-trips exactly through Snapshot/Restore.
type Source struct {
	seed    [chacha20.KeySize]byte
	counter uint64
	cipher  *chacha20.Cipher
	buf     [64]byte
	bufPos  int
}

// New constructs a Source from a 32-byte seed.
func New(seed [32]byte) *Source {
	s := &Source{seed: seed}
	s.reset()
	return s
}

// NewFromUint64 derives a 32-byte seed from a single uint64, for callers
// that just want a reproducible run from a small integer.
func NewFromUint64(seed uint64) *Source {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	binary.LittleEndian.PutUint64(key[8:16], seed^0x9E3779B97F4A7C15)
	binary.LittleEndian.PutUint64(key[16:24], seed^0xC2B2AE3D27D4EB4F)
	binary.LittleEndian.PutUint64(key[24:32], seed^0x165667B19E3779F9)
	return New(key)
}

func (s *Source) reset() {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(s.seed[:], nonce[:])
	if err != nil {
		panic(fmt.Sprintf("randsource: %v", err))
	}
	c.SetCounter(uint32(s.counter))
	s.cipher = c
	s.bufPos = len(s.buf)
}

func (s *Source) nextBytes(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		if s.bufPos >= len(s.buf) {
			var zero [64]byte
			s.cipher.XORKeyStream(s.buf[:], zero[:])
			s.counter++
			s.bufPos = 0
		}
		out[i] = s.buf[s.bufPos]
		s.bufPos++
	}
	return out
}

// Uint64 returns the next 64-bit value in the stream.
func (s *Source) Uint64() uint64 {
	return binary.LittleEndian.Uint64(s.nextBytes(8))
}

// Intn returns a value in [0, n). Panics if n <= 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		panic("randsource: Intn called with n <= 0")
	}
	return int(s.Uint64() % uint64(n))
}

// Float64 returns a value in [0.0, 1.0).
func (s *Source) Float64() float64 {
	const mantissaBits = 53
	return float64(s.Uint64()>>(64-mantissaBits)) / float64(uint64(1)<<mantissaBits)
}

// Shuffle permutes n elements in place using the Fisher-Yates algorithm,
// calling swap(i, j) for each transposition, matching the signature of
// math/rand.Shuffle so it drops in wherever the engine shuffles a library.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := s.Intn(i + 1)
		swap(i, j)
	}
}

// State is the serializable snapshot of a Source: the seed it was
// constructed with, and how many 64-byte blocks have been consumed.
type State struct {
	Seed    [32]byte
	Counter uint64
	BufPos  int
}

// Snapshot captures the Source's current state for persistence.
func (s *Source) Snapshot() State {
	return State{Seed: s.seed, Counter: s.counter, BufPos: s.bufPos}
}

// Restore reconstructs a Source from a previously captured State,
// producing byte-for-byte identical future output to the Source that
// produced it.
func Restore(st State) *Source {
	s := &Source{seed: st.Seed, counter: st.Counter}
	partial := st.BufPos > 0 && st.BufPos < len(s.buf) && st.Counter > 0
	if partial {
		// The partly consumed block was generated at Counter-1.
		s.counter = st.Counter - 1
	}
	s.reset()
	if partial {
		var zero [64]byte
		s.cipher.XORKeyStream(s.buf[:], zero[:])
		s.counter++
		s.bufPos = st.BufPos
	}
	return s
}
