package pipe

import (
	"beast/ga"
	"beast/program"
	"beast/vm"
)

// Scorer evaluates an assembled program's fitness in [0.0, 1.0].
// EvolutionPipe's caller supplies this (typically an eval.Evaluator
// wrapped to decode bytes into a session first).
type Scorer interface {
	Score(candidate []byte) float64
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(candidate []byte) float64

func (f ScorerFunc) Score(candidate []byte) float64 { return f(candidate) }

// EvolutionPipe has one input slot (the seed population) and one
// output slot (survivors). On execute, it runs a GA recombinator over
// the queued candidates and publishes every final individual whose
// fitness is at least CutOffScore.
type EvolutionPipe struct {
	*Base

	Recombinator ga.Recombinator
	Scorer       Scorer
	CutOffScore  float64
}

// NewEvolutionPipe builds an EvolutionPipe. slotCapacity bounds its one
// input and one output slot.
func NewEvolutionPipe(name string, slotCapacity int, recombinator ga.Recombinator, scorer Scorer) *EvolutionPipe {
	e := &EvolutionPipe{Recombinator: recombinator, Scorer: scorer, CutOffScore: 0}
	e.Base = NewBase(name, 1, 1, slotCapacity, e)
	return e
}

func (e *EvolutionPipe) Execute(b *Base) error {
	seedItems := b.drainInput(0)
	if len(seedItems) == 0 {
		return nil
	}

	seeds := make([][]byte, len(seedItems))
	for i, it := range seedItems {
		seeds[i] = it.Bytes
	}

	final := e.Recombinator.Evolve(seeds, func(candidate []byte) float64 {
		return safeScore(e.Scorer, candidate)
	})

	for _, candidate := range final {
		score := safeScore(e.Scorer, candidate)
		if score < e.CutOffScore {
			continue
		}
		item := NewItem(candidate)
		item.Score = score
		b.addOutput(0, item)
	}
	return nil
}

// safeScore treats a panicking Scorer as scoring 0, mirroring
// "exceptions thrown during evaluation yield 0".
func safeScore(scorer Scorer, candidate []byte) (score float64) {
	defer func() {
		if recover() != nil {
			score = 0
		}
	}()
	return scorer.Score(candidate)
}

// SessionScorer adapts an eval.Evaluator-shaped scoring function over
// decoded programs into the byte-oriented Scorer EvolutionPipe expects.
// cfg and logger parameterize the scratch session each candidate is
// loaded into; the session is handed to evaluate without being run, so
// any execution is up to evaluate itself.
func SessionScorer(cfg vm.Config, logger *vm.Logger, evaluate func(*vm.VmSession) (float64, error)) ScorerFunc {
	return func(candidate []byte) float64 {
		s := vm.NewSession(program.FromBytes(candidate), cfg, logger)
		score, err := evaluate(s)
		if err != nil {
			return 0
		}
		return score
	}
}
