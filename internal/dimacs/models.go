package dimacs

import (
	"fmt"

	rdimacs "github.com/rhartert/dimacs"
)

// ReadModels parses a reference file of expected models: one satisfying
// assignment per line, each written as DIMACS literals with no problem
// line (the format the `-check-models=` debug flag reads). Used to
// cross-check the solver's own model against a precomputed answer set
// while debugging a regression.
func ReadModels(filename string) ([][]bool, error) {
	r, err := reader(filename, false)
	if err != nil {
		return nil, fmt.Errorf("error reading file %q: %s", filename, err)
	}
	defer r.Close()

	mb := &modelBuilder{}
	if err := rdimacs.ReadBuilder(r, mb); err != nil {
		return nil, err
	}
	return mb.models, nil
}

// modelBuilder adapts a plain literal-lines file to rdimacs.Builder.
type modelBuilder struct {
	models [][]bool
}

func (b *modelBuilder) Problem(problem string, nVars int, nClauses int) error {
	return fmt.Errorf("model files should not have problem lines")
}

func (b *modelBuilder) Comment(_ string) error {
	return nil // ignore comments
}

func (b *modelBuilder) Clause(tmpClause []int) error {
	model := make([]bool, len(tmpClause))
	for i, l := range tmpClause {
		model[i] = l > 0
	}
	b.models = append(b.models, model)
	return nil
}
