package common

import (
	"hash/fnv"
	"math/rand"

	"github.com/pguetschow/rostercore/internal/model"
)

// NewRNG derives a solver-local random source from the Problem's seed (or a
// fixed fallback constant when unseeded) plus a per-call salt, so SA and GA
// never touch a package-level RNG and two independent Problem values never
// share entropy.
func NewRNG(problem *model.Problem, salt string) *rand.Rand {
	h := fnv.New64a()
	if problem.Seed != nil {
		var buf [8]byte
		s := *problem.Seed
		for i := 0; i < 8; i++ {
			buf[i] = byte(s >> (8 * i))
		}
		h.Write(buf[:])
	} else {
		h.Write([]byte("rostercore-unseeded"))
	}
	h.Write([]byte(salt))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}
