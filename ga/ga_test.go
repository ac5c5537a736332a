package ga

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countOnes(b []byte) float64 {
	var n float64
	for _, x := range b {
		for i := 0; i < 8; i++ {
			if x&(1<<uint(i)) != 0 {
				n++
			}
		}
	}
	return n
}

func TestEvolveReturnsConfiguredPopulationSize(t *testing.T) {
	cfg := NewConfig(6)
	cfg.NumGenerations = 3
	r := NewSimpleRecombinator(cfg)
	r.SetRandSource(rand.New(rand.NewSource(42)))

	out := r.Evolve([][]byte{{0, 0, 0, 0}}, func(b []byte) float64 { return countOnes(b) })
	assert.Len(t, out, 6)
	for _, c := range out {
		assert.Len(t, c, 4)
	}
}

func TestEvolveEmptyInitialReturnsNil(t *testing.T) {
	r := NewSimpleRecombinator(NewConfig(4))
	out := r.Evolve(nil, func([]byte) float64 { return 1 })
	assert.Nil(t, out)
}

func TestEvolveTowardHigherFitnessIncreasesAverageScore(t *testing.T) {
	cfg := NewConfig(20)
	cfg.NumGenerations = 25
	cfg.MutationProbability = 0.05
	cfg.CrossoverProbability = 0.7
	r := NewSimpleRecombinator(cfg)
	r.SetRandSource(rand.New(rand.NewSource(7)))

	seed := [][]byte{{0, 0, 0, 0}, {0, 0, 0, 0}}
	fitness := func(b []byte) float64 { return countOnes(b) }

	out := r.Evolve(seed, fitness)
	require.Len(t, out, 20)

	var total float64
	for _, c := range out {
		total += fitness(c)
	}
	avg := total / float64(len(out))
	assert.Greater(t, avg, 0.0, "evolution toward more set bits should raise the average above the all-zero seed's score of 0")
}

func TestPanickingFitnessScoresZeroNotCrash(t *testing.T) {
	cfg := NewConfig(4)
	cfg.NumGenerations = 2
	r := NewSimpleRecombinator(cfg)
	r.SetRandSource(rand.New(rand.NewSource(3)))

	assert.NotPanics(t, func() {
		r.Evolve([][]byte{{1, 2, 3}}, func([]byte) float64 { panic("boom") })
	})
}
