package dimacs

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	rdimacs "github.com/rhartert/dimacs"

	"github.com/halvards/cdcl/internal/sat"
)

// dimacsWriter is implemented by *sat.Solver: LoadDIMACS feeds a parsed CNF
// instance into it one variable/clause at a time, so the parser never has
// to hold the whole instance in memory.
type dimacsWriter interface {
	AddVariable() sat.Var
	AddClause([]sat.Literal) bool
}

func reader(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// builder adapts a dimacsWriter to rdimacs.Builder, the callback interface
// rdimacs.ReadBuilder drives as it scans a CNF file.
type builder struct {
	dw dimacsWriter
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("instance of type %q are not supported", problem)
	}
	for i := 0; i < nVars; i++ {
		b.dw.AddVariable()
	}
	return nil
}

func (b *builder) Clause(tmpClause []int) error {
	clause := make([]sat.Literal, len(tmpClause))
	for i, l := range tmpClause {
		if l < 0 {
			clause[i] = sat.NegativeLiteral(sat.Var(-l - 1))
		} else {
			clause[i] = sat.PositiveLiteral(sat.Var(l - 1))
		}
	}
	b.dw.AddClause(clause)
	return nil
}

func (b *builder) Comment(_ string) error {
	return nil // ignore comments
}

// LoadDIMACS parses a DIMACS CNF file (optionally gzip-compressed) via
// rdimacs.ReadBuilder, declaring one variable per `p cnf <vars> <clauses>`
// header count and feeding each clause to dw in file order.
func LoadDIMACS(filename string, gzipped bool, dw dimacsWriter) error {
	r, err := reader(filename, gzipped)
	if err != nil {
		return fmt.Errorf("error reading file %q: %s", filename, err)
	}
	defer r.Close()

	return rdimacs.ReadBuilder(r, &builder{dw})
}

// WriteSimplifiedCNF emits the solver's remaining (non-eliminated) clauses
// in DIMACS form, followed by `c` comment lines encoding the elimination
// reconstruction stack so an external tool can extend a model back over
// eliminated variables. It is
// the backing implementation of the `-dimacs=<file>` front-end flag.
//
// rdimacs only exposes a reader (ReadBuilder); it has no writer
// counterpart, so this side is hand-written.
func WriteSimplifiedCNF(w io.Writer, nVars int, clauses [][]sat.Literal, elimStack []sat.Literal) error {
	if _, err := fmt.Fprintf(w, "p cnf %d %d\n", nVars, len(clauses)); err != nil {
		return err
	}
	for _, lits := range clauses {
		for _, l := range lits {
			v := int(l.Var()) + 1
			if !l.IsPositive() {
				v = -v
			}
			if _, err := fmt.Fprintf(w, "%d ", v); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, "0"); err != nil {
			return err
		}
	}
	if len(elimStack) > 0 {
		fields := make([]string, len(elimStack))
		for i, x := range elimStack {
			fields[i] = strconv.Itoa(int(x))
		}
		if _, err := fmt.Fprintf(w, "c elim %s\n", strings.Join(fields, " ")); err != nil {
			return err
		}
	}
	return nil
}
