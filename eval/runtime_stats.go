package eval

import (
	"crypto/sha256"
	"fmt"

	mapset "github.com/deckarep/golang-set"
	lru "github.com/hashicorp/golang-lru"

	"beast/vm"
)

// staticPass is the cached outcome of dry-running a program once,
// front-to-back: its noop fraction and the full set of distinct
// instruction addresses a straight decode pass visits.
type staticPass struct {
	noopFraction float64
	indices      mapset.Set
}

// RuntimeStatisticsEvaluator blends a dynamic run's noop ratio with a
// dry run's static noop ratio and instruction-coverage ratio.
// DynWeight and StatWeight must each be >=0 and sum to <=1; the
// remainder is the weight given to (1 - executed_fraction).
//
// Dry-run passes are cached by a digest of the program bytes, since
// rescoring reuses identical candidates across GA generations.
type RuntimeStatisticsEvaluator struct {
	DynWeight  float64
	StatWeight float64

	cache *lru.Cache
}

func NewRuntimeStatisticsEvaluator(dynWeight, statWeight float64, cacheSize int) (*RuntimeStatisticsEvaluator, error) {
	if dynWeight < 0 || statWeight < 0 {
		return nil, fmt.Errorf("%w: weights must be non-negative", ErrInvalidArgument)
	}
	if dynWeight+statWeight > 1.0 {
		return nil, fmt.Errorf("%w: dyn_weight+stat_weight must be <=1, got %f", ErrInvalidArgument, dynWeight+statWeight)
	}
	if cacheSize <= 0 {
		cacheSize = 256
	}
	c, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &RuntimeStatisticsEvaluator{DynWeight: dynWeight, StatWeight: statWeight, cache: c}, nil
}

func (e *RuntimeStatisticsEvaluator) Evaluate(s *vm.VmSession) (float64, error) {
	dyn := s.Copy()
	dyn.Reset()
	cpu := vm.NewCpuVirtualMachine(dyn.Logger())
	if err := cpu.Run(dyn, false); err != nil {
		return 0, err
	}
	dynStats := dyn.Statistics()
	if dynStats.StepsExecuted == 0 {
		return 0, nil
	}

	static, err := e.staticPass(s)
	if err != nil {
		return 0, err
	}
	if static.indices.Cardinality() == 0 {
		return 0, nil
	}

	executedFraction := float64(dynStats.ExecutedIndices.Intersect(static.indices).Cardinality()) / float64(static.indices.Cardinality())

	execWeight := 1.0 - e.DynWeight - e.StatWeight
	d := dynStats.NoopFraction()
	return e.DynWeight*(1-d) + e.StatWeight*static.noopFraction + execWeight*(1-executedFraction), nil
}

// staticPass returns the cached (or freshly computed) outcome of a
// dry run over s's program. A dry run never takes a jump's effect
// (session mutation is skipped), so it walks every instruction exactly
// once front-to-back — that single pass is what "static" means here.
func (e *RuntimeStatisticsEvaluator) staticPass(s *vm.VmSession) (staticPass, error) {
	digest := programDigest(s)
	if cached, ok := e.cache.Get(digest); ok {
		return cached.(staticPass), nil
	}

	static := s.Copy()
	static.Reset()
	cpu := vm.NewCpuVirtualMachine(static.Logger())
	if err := cpu.Run(static, true); err != nil {
		return staticPass{}, err
	}
	stats := static.Statistics()

	result := staticPass{
		noopFraction: stats.NoopFraction(),
		indices:      stats.ExecutedIndices,
	}
	e.cache.Add(digest, result)
	return result, nil
}

func programDigest(s *vm.VmSession) [sha256.Size]byte {
	return sha256.Sum256(s.Program().Bytes())
}
