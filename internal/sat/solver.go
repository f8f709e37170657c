package sat

import (
	"math/rand"
	"time"
)

// varData bundles the per-variable attributes: the current value is tracked
// separately (in assigns, indexed by literal) since propagation reads it far
// more often than the rest; everything else lives here. Saved polarities
// live in the order heap, next to the activities that drive branching.
type varData struct {
	level      int32 // decision level, -1 if unassigned
	reason     CRef  // CRefUndef if a decision/assumption
	decision   bool  // eligible for branching
	eliminated bool  // removed by the simplifier
	frozen     bool  // excluded from elimination (simplifier)
}

// Status is the tri-valued outcome of a solve attempt.
type Status int8

const (
	StatusUnknown Status = 0
	StatusSat     Status = 1
	StatusUnsat   Status = -1
)

func (s Status) String() string {
	switch s {
	case StatusSat:
		return "SATISFIABLE"
	case StatusUnsat:
		return "UNSATISFIABLE"
	default:
		return "INDETERMINATE"
	}
}

// Stats are solving statistics, provided for information purposes only:
// they feed the periodic status line and the front end's summary.
type Stats struct {
	Conflicts    int64
	Decisions    int64
	Propagations int64
	Restarts     int64
	LearntsSize  EMA
}

// Solver is the CDCL kernel: two-watched-literal clause store, trail with
// decision levels, conflict analysis, VSIDS branching, Luby restarts,
// geometric reduceDB, and an optional simplifier.
type Solver struct {
	opts Options

	arena *ClauseAllocator
	w     *watches

	constraints []CRef
	learnts     []CRef
	clauseInc   float64

	maxLearnts       float64 // learnt-clause budget, set on first SolveLimited
	learntAdjustConf float64
	learntAdjustCnt  int64

	vars    []varData
	assigns []LBool // indexed by Literal

	order *VarOrder

	trail    []Literal
	trailLim []int
	qhead    int

	unsat bool

	seen *ResetSet

	tmpLearnt     []Literal // scratch buffer built by analyze
	tmpAnalyzeStk []Literal // fail-stack for deep minimisation
	tmpMarked     []Var     // vars marked seen by the current litRedundant call
	tmpReason     []Literal

	Model       []bool
	Conflict    []Literal // final-conflict literals when SolveLimited returns false under assumptions
	assumptions []Literal

	rng *rand.Rand

	restarter restartPolicy

	Stats Stats

	startTime time.Time

	simp *simplifier // nil once disabled/turned off

	// AsynchInterrupt is a cooperative interrupt flag: set it from any
	// goroutine (e.g. a signal handler) to make the solver unwind to
	// decision level 0 and return StatusUnknown at its next safe point.
	AsynchInterrupt boolFlag
}

// NewSolver returns a solver configured with the given options.
func NewSolver(opts Options) *Solver {
	s := &Solver{
		opts:      opts,
		arena:     NewClauseAllocator(1 << 20),
		w:         newWatches(),
		clauseInc: 1,
		seen:      &ResetSet{},
		order:     newVarOrder(opts.VarDecay, opts.PhaseSaving > 0),
		rng:       rand.New(rand.NewSource(opts.RandomSeed)),
	}
	s.Stats.LearntsSize = NewEMA(0.999)
	s.tmpLearnt = append(s.tmpLearnt, LitUndef)
	if opts.LubyRestart {
		s.restarter = newLubyRestart(opts.RestartFirst, opts.RestartInc)
	} else {
		s.restarter = newGeometricRestart(opts.RestartFirst, opts.RestartInc)
	}
	if opts.UseElim {
		s.simp = newSimplifier(s)
	}
	return s
}

// NewDefaultSolver returns a solver using DefaultOptions.
func NewDefaultSolver() *Solver {
	return NewSolver(DefaultOptions)
}

// NumVariables returns the number of variables declared so far.
func (s *Solver) NumVariables() int { return len(s.vars) }

// NumAssigns returns the number of currently assigned variables.
func (s *Solver) NumAssigns() int { return len(s.trail) }

// NumConstraints returns the number of original (non-learnt) clauses.
func (s *Solver) NumConstraints() int { return len(s.constraints) }

// NumLearnts returns the number of learnt clauses currently kept.
func (s *Solver) NumLearnts() int { return len(s.learnts) }

func (s *Solver) decisionLevel() int { return len(s.trailLim) }

func (s *Solver) value(l Literal) LBool { return s.assigns[l.index()] }

// VarValue returns the current value of variable v.
func (s *Solver) VarValue(v Var) LBool { return s.assigns[PositiveLiteral(v).index()] }

func (s *Solver) assigned(v Var) bool { return s.VarValue(v) != Unknown }

// NewVar allocates a new variable, returning its id. polarity is the
// default/pinned polarity used by the very first decision about it (true
// means the solver prefers assigning it true); decision marks whether the
// variable is eligible for branching at all (non-decision variables can
// still be assigned by unit propagation but are skipped by the order heap).
func (s *Solver) NewVar(polarity bool, decision bool) Var {
	v := Var(len(s.vars))

	s.vars = append(s.vars, varData{
		level:    -1,
		reason:   CRefUndef,
		decision: decision,
	})
	s.assigns = append(s.assigns, Unknown, Unknown)
	s.w.growTo(len(s.assigns))
	s.seen.Expand()

	initAct := 0.0
	if s.opts.RandomInitialActivities {
		initAct = s.rng.Float64() * 0.00001
	}
	s.order.addVar(initAct, polarity)
	if decision {
		s.order.insert(v)
	}
	if s.simp != nil {
		s.simp.growTo(v)
	}
	return v
}

// AddVariable adds a decision variable with default (false) polarity, the
// common case for DIMACS ingestion.
func (s *Solver) AddVariable() Var {
	return s.NewVar(false, true)
}
