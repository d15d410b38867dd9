package semant

import (
	"cool-compiler/ast"
	"cool-compiler/diagnostics"

	"go.uber.org/zap"
)

// DefaultMaxNestingDepth bounds how deeply expressions are followed
// before the checker gives up on a subtree.
const DefaultMaxNestingDepth = 10000

type Option func(*SemanticAnalyser)

// WithReporter forwards every diagnostic to r as it is found, in addition
// to collecting it in the Result.
func WithReporter(r diagnostics.Reporter) Option {
	return func(sa *SemanticAnalyser) {
		sa.reporter = r
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(sa *SemanticAnalyser) {
		if logger != nil {
			sa.logger = logger
		}
	}
}

func WithMaxNestingDepth(depth int) Option {
	return func(sa *SemanticAnalyser) {
		if depth > 0 {
			sa.maxNestingDepth = depth
		}
	}
}

type SemanticAnalyser struct {
	reporter        diagnostics.Reporter
	logger          *zap.Logger
	maxNestingDepth int

	errors []string
}

func NewSemanticAnalyser(opts ...Option) *SemanticAnalyser {
	sa := &SemanticAnalyser{
		logger:          zap.NewNop(),
		maxNestingDepth: DefaultMaxNestingDepth,
		errors:          []string{},
	}
	for _, opt := range opts {
		opt(sa)
	}
	return sa
}

// Errors returns the diagnostics of the last Analyze call as
// file:line: message strings.
func (sa *SemanticAnalyser) Errors() []string {
	return sa.errors
}

// Result is the outcome of one analysis.
type Result struct {
	// Graph is the built hierarchy with resolved method tables.
	Graph *ClassGraph
	// Types maps every checked expression to its static type. It is
	// empty when the hierarchy had a cycle.
	Types       map[ast.Expression]string
	Diagnostics []diagnostics.Diagnostic
}

// TypeOf returns the static type inferred for e, or "" when e was never
// checked.
func (r *Result) TypeOf(e ast.Expression) string {
	return r.Types[e]
}

func (r *Result) HasErrors() bool {
	return len(r.Diagnostics) > 0
}

// Analyze runs the Gather Pass and, when the hierarchy is acyclic, the
// Check Pass over program. The program is not modified.
func (sa *SemanticAnalyser) Analyze(program *ast.Program) *Result {
	collector := diagnostics.NewCollector()
	var reporter diagnostics.Reporter = collector
	if sa.reporter != nil {
		reporter = diagnostics.Tee(collector, sa.reporter)
	}

	result := &Result{Types: map[ast.Expression]string{}}
	defer func() {
		result.Diagnostics = collector.Diagnostics()
		sa.errors = collector.Strings()
	}()

	graph, ok := Gather(program, reporter)
	result.Graph = graph
	sa.logger.Debug("gather pass finished",
		zap.Int("classes", len(program.Classes)),
		zap.Int("diagnostics", collector.Len()))

	if !ok {
		sa.logger.Warn("inheritance cycle found, skipping type checking")
		return result
	}

	c := newChecker(graph, reporter, sa.maxNestingDepth)
	c.run()
	result.Types = c.types

	sa.logger.Debug("check pass finished",
		zap.Int("expressions", len(c.types)),
		zap.Int("diagnostics", collector.Len()))
	return result
}
