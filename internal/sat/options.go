package sat

// Options configures a Solver at construction time. Options are a plain
// configuration value passed into NewSolver, not a package-level singleton;
// the front end (main.go) is the only place environment-variable overrides
// apply, before building an Options value.
type Options struct {
	// Branching.
	VarDecay                float64
	ClauseDecay             float64
	RandomVarFreq           float64
	RandomSeed              int64
	RandomInitialActivities bool
	RandomPolarity          bool
	PhaseSaving             int // 0: none, 1: innermost decision level only, 2: always
	CCMinMode               int // 0: none, 1: local, 2: deep

	// Restart policy.
	LubyRestart  bool
	RestartInc   float64
	RestartFirst int

	// Clause database.
	GCFrac     float64
	MinLearnts int

	// Simplifier.
	UseElim        bool
	UseAsymm       bool
	RCheck         bool
	SimpGCFrac     float64
	SubsumptionLim int
	ClauseLim      int
	Grow           int

	// Resource limits. Negative means unlimited.
	MaxConflicts    int64
	MaxPropagations int64

	// Verbosity for the periodic status line: 0 silent; any positive
	// level prints the header and the periodic status lines.
	Verbosity int
}

// DefaultOptions holds the default value of every tunable.
var DefaultOptions = Options{
	VarDecay:                0.95,
	ClauseDecay:             0.999,
	RandomVarFreq:           0,
	RandomSeed:              91648253,
	RandomInitialActivities: false,
	RandomPolarity:          false,
	PhaseSaving:             2,
	CCMinMode:               2,

	LubyRestart:  true,
	RestartInc:   2,
	RestartFirst: 100,

	GCFrac:     0.20,
	MinLearnts: 0,

	UseElim:        true,
	UseAsymm:       false,
	RCheck:         false,
	SimpGCFrac:     0.5,
	SubsumptionLim: 1000,
	ClauseLim:      20,
	Grow:           0,

	MaxConflicts:    -1,
	MaxPropagations: -1,

	Verbosity: 0,
}
