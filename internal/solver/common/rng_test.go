package common_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pguetschow/rostercore/internal/model"
	"github.com/pguetschow/rostercore/internal/solver/common"
)

func TestNewRNG_DeterministicForSameSeedAndSalt(t *testing.T) {
	seed := uint64(7)
	p1 := &model.Problem{Seed: &seed}
	p2 := &model.Problem{Seed: &seed}

	r1 := common.NewRNG(p1, "same-salt")
	r2 := common.NewRNG(p2, "same-salt")

	for i := 0; i < 10; i++ {
		assert.Equal(t, r1.Float64(), r2.Float64())
	}
}

func TestNewRNG_DifferentSaltDiverges(t *testing.T) {
	seed := uint64(7)
	p := &model.Problem{Seed: &seed}

	r1 := common.NewRNG(p, "salt-a")
	r2 := common.NewRNG(p, "salt-b")

	assert.NotEqual(t, r1.Float64(), r2.Float64())
}

func TestNewRNG_DifferentSeedDiverges(t *testing.T) {
	seedA, seedB := uint64(1), uint64(2)
	pA := &model.Problem{Seed: &seedA}
	pB := &model.Problem{Seed: &seedB}

	r1 := common.NewRNG(pA, "salt")
	r2 := common.NewRNG(pB, "salt")

	assert.NotEqual(t, r1.Float64(), r2.Float64())
}

func TestNewRNG_UnseededIsStillDeterministic(t *testing.T) {
	p1 := &model.Problem{}
	p2 := &model.Problem{}

	r1 := common.NewRNG(p1, "salt")
	r2 := common.NewRNG(p2, "salt")

	assert.Equal(t, r1.Float64(), r2.Float64())
}
