// Package runtime drives source text through tokenizing, parsing and
// evaluation, and renders the results for a shell.
package runtime

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sergev/lox/lang"
	"github.com/sergev/lox/lexer"
	"github.com/sergev/lox/parser"
	"github.com/sergev/lox/sexpr"
	"gopkg.in/yaml.v3"
)

// Options configures an Interpreter.
type Options struct {
	// Output receives print statements and debugging dumps.
	Output io.Writer
	// Logger for structured logging.
	Logger *slog.Logger
	// ShowTokens dumps the token sequence of every source before parsing.
	ShowTokens bool
	// ShowAST dumps the syntax tree of every source that parses.
	ShowAST bool
}

// Option is a functional option for New.
type Option func(*Options)

// WithOutput directs program output to w.
func WithOutput(w io.Writer) Option {
	return func(opts *Options) {
		opts.Output = w
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithTokens enables or disables token dumps.
func WithTokens(enabled bool) Option {
	return func(opts *Options) {
		opts.ShowTokens = enabled
	}
}

// WithAST enables or disables syntax tree dumps.
func WithAST(enabled bool) Option {
	return func(opts *Options) {
		opts.ShowAST = enabled
	}
}

// Interpreter evaluates successive sources against one environment, so
// variables declared by one call are visible to the next.
type Interpreter struct {
	opts   Options
	logger *slog.Logger
	ev     *lang.Evaluator
}

// New creates an Interpreter printing to stdout unless configured otherwise.
func New(opts ...Option) *Interpreter {
	options := Options{Output: os.Stdout}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &Interpreter{
		opts:   options,
		logger: options.Logger,
		ev:     lang.NewEvaluator(lang.WithOutput(options.Output)),
	}
}

// Environment returns the variables shared by all evaluations.
func (in *Interpreter) Environment() *lang.Environment {
	return in.ev.Env
}

// EvaluateString parses src and, if it has no syntax errors, evaluates it.
// Parse failures are returned as *parser.Error and nothing is executed;
// evaluation failures are returned as *lang.RuntimeError.
func (in *Interpreter) EvaluateString(src string) error {
	if in.opts.ShowTokens {
		tokens, _ := lexer.Tokenize(src)
		fmt.Fprintln(in.opts.Output, sexpr.Tokens(tokens))
	}
	prog, err := parser.Parse(src)
	if err != nil {
		in.logger.Debug("parse failed", "error", err, "incomplete", parser.IsIncomplete(err))
		return err
	}
	in.logger.Debug("parsed", "declarations", len(prog.Decls))
	if in.opts.ShowAST {
		fmt.Fprint(in.opts.Output, sexpr.Program(prog))
	}
	if err := in.ev.EvaluateProgram(prog); err != nil {
		in.logger.Debug("evaluation failed", "error", err, "depth", in.ev.Env.Depth())
		return err
	}
	return nil
}

// EvaluateReader reads all of r and evaluates it.
func (in *Interpreter) EvaluateReader(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return in.EvaluateString(string(data))
}

// EvaluateFile loads and executes a script, allowing a #! first line.
func (in *Interpreter) EvaluateFile(path string) error {
	src, err := ReadScript(path)
	if err != nil {
		return err
	}
	in.logger.Debug("loaded script", "path", path, "bytes", len(src))
	return in.EvaluateString(src)
}

// ReadScript returns the contents of path without a leading #! line.
func ReadScript(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if bytes.HasPrefix(data, []byte("#!")) {
		if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
			return string(data[idx+1:]), nil
		}
		return "", nil
	}
	return string(data), nil
}

// FormatError renders err for a user. Parse errors show every diagnostic
// against src; other errors are a single line.
func FormatError(src string, err error) string {
	var perr *parser.Error
	if errors.As(err, &perr) {
		return strings.Join(perr.Diagnostics(src), "\n")
	}
	return fmt.Sprintf("error: %v", err)
}

type snapshot struct {
	Frames []lang.FrameSnapshot `yaml:"frames"`
}

// WriteSnapshot writes every frame of the environment to w as YAML.
func (in *Interpreter) WriteSnapshot(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snapshot{Frames: in.ev.Env.Snapshot()}); err != nil {
		return err
	}
	return enc.Close()
}
