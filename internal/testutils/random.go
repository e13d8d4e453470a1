// Package testutils holds helpers shared by the package tests.
package testutils

import (
	"math/rand/v2"
	"os"
	"strconv"
	"testing"
	"time"
)

// Seed feeds every generator returned by NewRand. Export TEST_SEED (decimal or 0x hex) to replay a
// failing run.
var Seed = seedFromEnv()

func seedFromEnv() uint64 {
	if v, err := strconv.ParseUint(os.Getenv("TEST_SEED"), 0, 64); err == nil {
		return v
	}
	return uint64(time.Now().UnixNano())
}

// NewRand returns a PCG generator seeded from Seed. The seed is logged on t so it shows up next to
// any failure.
func NewRand(t testing.TB) *rand.Rand {
	t.Helper()
	t.Logf("TEST_SEED=0x%x", Seed)
	return rand.New(rand.NewPCG(Seed, ^Seed))
}

// Weight is implemented by op enums whose value doubles as their relative frequency.
type Weight interface {
	~uint8 | ~uint16 | ~uint32 | ~int
}

// PickWeighted draws one of ops, each with probability proportional to its value.
func PickWeighted[T Weight](r *rand.Rand, ops []T) T {
	total := 0
	for _, op := range ops {
		total += int(op)
	}
	n := r.IntN(total)
	for _, op := range ops {
		if n < int(op) {
			return op
		}
		n -= int(op)
	}
	return ops[len(ops)-1]
}

// PickKey draws a key of m uniformly. m must not be empty.
func PickKey[K comparable, V any](r *rand.Rand, m map[K]V) K {
	n := r.IntN(len(m))
	var key K
	for k := range m {
		key = k
		if n == 0 {
			break
		}
		n--
	}
	return key
}
