package main

import (
	"cool-compiler/ast"
	"cool-compiler/config"
	"cool-compiler/diagnostics"
	"cool-compiler/importer"
	"cool-compiler/layout"
	"cool-compiler/lexer"
	"cool-compiler/parser"
	"cool-compiler/semant"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	input  string
	config string
	layout string
	format string
}

// run compiles the program named by args and returns the exit status:
// 0 when the program is valid, 1 on diagnostics or I/O failures and 2 on
// bad usage.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("coolc", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.input, "i", "", "Input COOL source file")
	fs.StringVar(&opts.config, "config", "", "Config file (default: nearest "+config.FileName+")")
	fs.StringVar(&opts.layout, "layout", "", "Write the LLVM class layout to this file")
	fs.StringVar(&opts.format, "format", "", "Diagnostics format: text or lsp-json")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if opts.input == "" {
		fmt.Fprintln(stderr, "Error: Input file is required")
		fs.PrintDefaults()
		return 2
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	logger, err := newLogger(cfg.Log, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	defer logger.Sync()

	c := &compiler{cfg: cfg, logger: logger, stdout: stdout, stderr: stderr}
	return c.compile(opts.input)
}

// loadConfig reads the config named on the command line, or the nearest
// coolc.toml above the input, and applies the flag overrides.
func loadConfig(opts options) (*config.Config, error) {
	path := opts.config
	if path == "" {
		path = config.FindConfigFile(opts.input)
	}

	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if opts.layout != "" {
		cfg.Output.Layout = opts.layout
	}
	if opts.format != "" {
		cfg.Diagnostics.Format = opts.format
	}
	return cfg, cfg.Validate()
}

func newLogger(c config.LogConfig, w io.Writer) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	var opts []zap.Option
	if c.Development {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		opts = append(opts, zap.Development(), zap.AddCaller())
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	return zap.New(core, opts...), nil
}

type compiler struct {
	cfg    *config.Config
	logger *zap.Logger
	stdout io.Writer
	stderr io.Writer
}

func (c *compiler) compile(input string) int {
	c.logger.Info("processing imports", zap.String("file", input))
	sources, err := importer.New().Load(input)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error processing imports: %v\n", err)
		return 1
	}

	program, syntax := c.parse(sources)
	if len(syntax) > 0 {
		c.logger.Info("parsing failed", zap.Int("errors", len(syntax)))
		return c.report(syntax)
	}

	c.logger.Info("performing semantic analysis", zap.Int("classes", len(program.Classes)))
	analyser := semant.NewSemanticAnalyser(
		semant.WithLogger(c.logger),
		semant.WithMaxNestingDepth(c.cfg.Analysis.MaxNestingDepth),
	)
	result := analyser.Analyze(program)
	c.logTypes(program, result)

	if result.HasErrors() {
		return c.report(result.Diagnostics)
	}

	if path := c.cfg.Output.Layout; path != "" {
		if err := c.writeLayout(path, result.Graph); err != nil {
			fmt.Fprintf(c.stderr, "Error writing layout: %v\n", err)
			return 1
		}
	}
	if c.cfg.Diagnostics.Format == config.FormatLSPJSON {
		return c.report(nil)
	}
	return 0
}

// parse parses every source on its own, so positions keep the file they
// came from, and merges the classes into one program.
func (c *compiler) parse(sources []importer.Source) (*ast.Program, []diagnostics.Diagnostic) {
	program := &ast.Program{}
	var syntax []diagnostics.Diagnostic
	for _, src := range sources {
		c.logger.Info("parsing module", zap.String("module", src.Module), zap.String("file", src.Path))
		p := parser.New(lexer.NewLexerWithFile(strings.NewReader(src.Content), src.Path))
		parsed := p.ParseProgram()
		syntax = append(syntax, p.Diagnostics()...)
		program.Classes = append(program.Classes, parsed.Classes...)
	}
	return program, syntax
}

func (c *compiler) logTypes(program *ast.Program, result *semant.Result) {
	if !c.logger.Core().Enabled(zapcore.DebugLevel) {
		return
	}
	for _, class := range program.Classes {
		for _, m := range class.Methods() {
			c.logger.Debug("method body typed",
				zap.String("class", class.Name.Value),
				zap.String("method", m.Name.Value),
				zap.String("type", result.TypeOf(m.Body)),
				zap.String("body", parser.SerializeExpression(m.Body)))
		}
	}
}

// report writes diags in the configured format and returns the exit status.
func (c *compiler) report(diags []diagnostics.Diagnostic) int {
	status := 0
	if len(diags) > 0 {
		status = 1
	}

	if c.cfg.Diagnostics.Format == config.FormatLSPJSON {
		if err := json.NewEncoder(c.stdout).Encode(diagnostics.ToLSP(diags)); err != nil {
			fmt.Fprintf(c.stderr, "Error writing diagnostics: %v\n", err)
			return 1
		}
		return status
	}

	if err := diagnostics.NewEmitter(c.stderr, c.cfg.Diagnostics.Color).Emit(diags); err != nil {
		fmt.Fprintf(c.stderr, "Error writing diagnostics: %v\n", err)
		return 1
	}
	return status
}

func (c *compiler) writeLayout(path string, graph *semant.ClassGraph) error {
	module := layout.Emit(layout.Compute(graph))
	if err := os.WriteFile(path, []byte(module.String()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	c.logger.Info("wrote class layout", zap.String("file", path), zap.Int("types", len(module.TypeDefs)))
	return nil
}
