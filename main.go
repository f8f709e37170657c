package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/halvards/cdcl/internal/dimacs"
	"github.com/halvards/cdcl/internal/sat"
)

var (
	flagVerbosity   = flag.Int("verb", sat.DefaultOptions.Verbosity, "verbosity level (0..2)")
	flagCPULim      = flag.Int("cpu-lim", 0, "time limit in seconds, measured as wall-clock time (0: unlimited)")
	flagMemLim      = flag.Int("mem-lim", 0, "memory limit in MB (0: unlimited)")
	flagRndInit     = flag.Bool("rnd-init", sat.DefaultOptions.RandomInitialActivities, "randomize initial activities")
	flagPre         = flag.Bool("pre", sat.DefaultOptions.UseElim, "run the simplifier before solving")
	flagDimacs      = flag.String("dimacs", "", "emit the simplified CNF to this file and exit")
	flagCheckModels = flag.String("check-models", "", "debug: verify a SAT result's model against a reference models file")
	flagVarDecay    = flag.Float64("var-decay", sat.DefaultOptions.VarDecay, "variable activity decay")
	flagClaDecay    = flag.Float64("cla-decay", sat.DefaultOptions.ClauseDecay, "clause activity decay")
	flagRndFreq     = flag.Float64("rnd-freq", sat.DefaultOptions.RandomVarFreq, "random decision frequency")
	flagRndSeed     = flag.Int64("rnd-seed", sat.DefaultOptions.RandomSeed, "PRNG seed")
	flagCCMinMode   = flag.Int("ccmin-mode", sat.DefaultOptions.CCMinMode, "learnt clause minimisation mode (0/1/2)")
	flagPhaseSave   = flag.Int("phase-saving", sat.DefaultOptions.PhaseSaving, "phase saving mode (0/1/2)")
	flagRndPol      = flag.Bool("rnd-pol", sat.DefaultOptions.RandomPolarity, "randomize branching polarity")
	flagLuby        = flag.Bool("luby", sat.DefaultOptions.LubyRestart, "use Luby restart sequence")
	flagRestartInc  = flag.Float64("rinc", sat.DefaultOptions.RestartInc, "restart interval increase factor")
	flagRestartFst  = flag.Int("rfirst", sat.DefaultOptions.RestartFirst, "restart interval base")
	flagGCFrac      = flag.Float64("gc-frac", sat.DefaultOptions.GCFrac, "clause arena garbage collection threshold")
	flagMinLearnts  = flag.Int("min-learnts", sat.DefaultOptions.MinLearnts, "minimum learnt clause budget")
	flagAsymm       = flag.Bool("asymm", sat.DefaultOptions.UseAsymm, "enable asymmetric branching in the simplifier")
	flagRCheck      = flag.Bool("rcheck", sat.DefaultOptions.RCheck, "skip adding clauses already implied by unit propagation")
	flagElim        = flag.Bool("elim", sat.DefaultOptions.UseElim, "enable variable elimination")
	flagSimpGCFrac  = flag.Float64("simp-gc-frac", sat.DefaultOptions.SimpGCFrac, "simplifier garbage collection threshold")
	flagSubLim      = flag.Int("sub-lim", sat.DefaultOptions.SubsumptionLim, "subsumption clause-size limit")
	flagClLim       = flag.Int("cl-lim", sat.DefaultOptions.ClauseLim, "resolvent clause-size limit during elimination")
	flagGrow        = flag.Int("grow", sat.DefaultOptions.Grow, "allowed growth in literal count during elimination")

	flagCPUProfile = flag.Bool("cpuprof", false, "save a pprof CPU profile to ./cpuprof")
	flagMemProfile = flag.Bool("memprof", false, "save a pprof heap profile to ./memprof")
)

const (
	exitSAT     = 10
	exitUNSAT   = 20
	exitUnknown = 0
	exitError   = 1
)

// envOverride reads the MINISAT_<OPTION_UPPER_SNAKE> environment variable
// mirroring a flag. Environment values are applied as flag defaults before
// flag.Parse runs, so an explicit flag always wins.
func envOverride(flagName string) (string, bool) {
	key := "MINISAT_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
	return os.LookupEnv(key)
}

func applyEnvDefaults() {
	for _, name := range []string{
		"verb", "cpu-lim", "mem-lim", "rnd-init", "pre", "dimacs", "check-models",
		"var-decay", "cla-decay", "rnd-freq", "rnd-seed", "ccmin-mode",
		"phase-saving", "rnd-pol", "luby", "rinc", "rfirst", "gc-frac",
		"min-learnts", "asymm", "rcheck", "elim", "simp-gc-frac", "sub-lim",
		"cl-lim", "grow",
	} {
		if v, ok := envOverride(name); ok {
			if f := flag.Lookup(name); f != nil {
				f.DefValue = v
				f.Value.Set(v)
			}
		}
	}
}

func optionsFromFlags() sat.Options {
	return sat.Options{
		VarDecay:                *flagVarDecay,
		ClauseDecay:             *flagClaDecay,
		RandomVarFreq:           *flagRndFreq,
		RandomSeed:              *flagRndSeed,
		RandomInitialActivities: *flagRndInit,
		RandomPolarity:          *flagRndPol,
		PhaseSaving:             *flagPhaseSave,
		CCMinMode:               *flagCCMinMode,
		LubyRestart:             *flagLuby,
		RestartInc:              *flagRestartInc,
		RestartFirst:            *flagRestartFst,
		GCFrac:                  *flagGCFrac,
		MinLearnts:              *flagMinLearnts,
		UseElim:                 *flagElim && *flagPre,
		UseAsymm:                *flagAsymm,
		RCheck:                  *flagRCheck,
		SimpGCFrac:              *flagSimpGCFrac,
		SubsumptionLim:          *flagSubLim,
		ClauseLim:               *flagClLim,
		Grow:                    *flagGrow,
		MaxConflicts:            -1,
		MaxPropagations:         -1,
		Verbosity:               *flagVerbosity,
	}
}

func isGzip(filename string) bool {
	return strings.HasSuffix(filename, ".gz")
}

func run(instanceFile string) (sat.Status, error) {
	opts := optionsFromFlags()
	s := sat.NewSolver(opts)

	// SIGINT and the cpu-lim timer both go through the cooperative
	// interrupt flag, so the solver unwinds cleanly and the front end
	// still prints its summary and exits 0 (indeterminate).
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		s.AsynchInterrupt.Set()
	}()
	if *flagCPULim > 0 {
		timer := time.AfterFunc(time.Duration(*flagCPULim)*time.Second, s.AsynchInterrupt.Set)
		defer timer.Stop()
	}

	if err := dimacs.LoadDIMACS(instanceFile, isGzip(instanceFile), s); err != nil {
		return sat.StatusUnknown, fmt.Errorf("could not parse instance: %w", err)
	}

	if opts.Verbosity > 0 {
		fmt.Printf("c variables:  %d\n", s.NumVariables())
		fmt.Printf("c constraints: %d\n", s.NumConstraints())
	}

	if !s.Eliminate(*flagDimacs == "") {
		printResult(sat.StatusUnsat, s, 0)
		return sat.StatusUnsat, nil
	}

	if *flagDimacs != "" {
		if err := writeSimplifiedCNF(s, *flagDimacs); err != nil {
			return sat.StatusUnknown, fmt.Errorf("could not write simplified CNF: %w", err)
		}
		return sat.StatusUnknown, nil
	}

	start := time.Now()
	status := s.Solve()
	printResult(status, s, time.Since(start).Seconds())

	if status == sat.StatusSat && *flagCheckModels != "" {
		if err := checkModel(s.Model, *flagCheckModels); err != nil {
			return status, fmt.Errorf("model check failed: %w", err)
		}
	}

	return status, nil
}

// checkModel verifies that model appears in the reference set of expected
// models recorded at path, one DIMACS-literal line per model.
func checkModel(model []bool, path string) error {
	models, err := dimacs.ReadModels(path)
	if err != nil {
		return fmt.Errorf("could not read reference models: %w", err)
	}
	for _, want := range models {
		if modelsEqual(model, want) {
			return nil
		}
	}
	return fmt.Errorf("model not found among %d reference models in %q", len(models), path)
}

func modelsEqual(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func writeSimplifiedCNF(s *sat.Solver, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	nVars, clauses, elimStack := s.ExportSimplified()
	return dimacs.WriteSimplifiedCNF(f, nVars, clauses, elimStack)
}

func printResult(status sat.Status, s *sat.Solver, elapsedSec float64) {
	fmt.Printf("c time (sec): %f\n", elapsedSec)
	fmt.Printf("c conflicts:  %d\n", s.Stats.Conflicts)
	fmt.Printf("c decisions:  %d\n", s.Stats.Decisions)
	fmt.Printf("c propagations: %d\n", s.Stats.Propagations)
	fmt.Printf("c status:     %s\n", status.String())

	switch status {
	case sat.StatusSat:
		fmt.Println("s SATISFIABLE")
		fmt.Print("v ")
		for v, val := range s.Model {
			lit := v + 1
			if !val {
				lit = -lit
			}
			fmt.Printf("%d ", lit)
		}
		fmt.Println("0")
	case sat.StatusUnsat:
		fmt.Println("s UNSATISFIABLE")
	default:
		fmt.Println("s INDETERMINATE")
	}
}

func exitCode(status sat.Status, err error) int {
	if err != nil {
		return exitError
	}
	switch status {
	case sat.StatusSat:
		return exitSAT
	case sat.StatusUnsat:
		return exitUNSAT
	default:
		return exitUnknown
	}
}

func main() {
	applyEnvDefaults()
	flag.Parse()

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		log.Fatal("missing instance file")
	}
	instanceFile := flag.Arg(0)

	if *flagCPUProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if *flagMemLim > 0 {
		debug.SetMemoryLimit(int64(*flagMemLim) << 20)
	}

	status, err := run(instanceFile)
	if err != nil {
		log.Print(err)
	}

	if *flagMemProfile {
		f, err := os.Create("memprof")
		if err == nil {
			pprof.WriteHeapProfile(f)
			f.Close()
		}
	}

	os.Exit(exitCode(status, err))
}
