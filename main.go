package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/sergev/lox/parser"
	"github.com/sergev/lox/runtime"
)

type shellConfig struct {
	showTokens bool
	showAST    bool
	showEnv    bool
	debug      bool
}

func main() {
	var cfg shellConfig
	flag.BoolVar(&cfg.showTokens, "tokens", false, "print the token sequence of every input")
	flag.BoolVar(&cfg.showAST, "ast", false, "print the syntax tree of every input")
	flag.BoolVar(&cfg.showEnv, "env", false, "print all variables as YAML after every run")
	flag.BoolVar(&cfg.debug, "debug", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: lox [flags] [script]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	in := newInterpreter(cfg, os.Stdout, os.Stderr)
	if flag.NArg() > 0 {
		if err := runScript(in, cfg, flag.Arg(0), os.Stdout, os.Stderr); err != nil {
			os.Exit(1)
		}
		return
	}
	runREPL(in, cfg)
}

func newInterpreter(cfg shellConfig, stdout, stderr io.Writer) *runtime.Interpreter {
	level := slog.LevelWarn
	if cfg.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	return runtime.New(
		runtime.WithOutput(stdout),
		runtime.WithLogger(logger),
		runtime.WithTokens(cfg.showTokens),
		runtime.WithAST(cfg.showAST),
	)
}

// runScript executes a script file, or standard input when path is "-".
// Failures have already been reported to stderr when it returns an error.
func runScript(in *runtime.Interpreter, cfg shellConfig, path string, stdout, stderr io.Writer) error {
	var (
		src string
		err error
	)
	if path == "-" {
		var data []byte
		data, err = io.ReadAll(os.Stdin)
		src = string(data)
	} else {
		src, err = runtime.ReadScript(path)
	}
	if err != nil {
		fmt.Fprintf(stderr, "lox: %v\n", err)
		return err
	}
	return evaluate(in, cfg, src, stdout, stderr)
}

// evaluate runs one complete input and reports its outcome.
func evaluate(in *runtime.Interpreter, cfg shellConfig, src string, stdout, stderr io.Writer) error {
	err := in.EvaluateString(src)
	if err != nil {
		fmt.Fprintln(stderr, runtime.FormatError(src, err))
	}
	if cfg.showEnv {
		if serr := in.WriteSnapshot(stdout); serr != nil {
			fmt.Fprintf(stderr, "lox: %v\n", serr)
		}
	}
	return err
}

// needsMore reports whether src stops in the middle of a construct, so the
// REPL should keep reading before running it.
func needsMore(src string) bool {
	_, err := parser.Parse(src)
	return parser.IsIncomplete(err)
}

func runREPL(in *runtime.Interpreter, cfg shellConfig) {
	if !isInteractive() {
		runBufferedREPL(in, cfg, bufio.NewReader(os.Stdin), os.Stdout, os.Stderr)
		return
	}
	runInteractiveREPL(in, cfg)
}

func runBufferedREPL(in *runtime.Interpreter, cfg shellConfig, reader *bufio.Reader, stdout, stderr io.Writer) {
	var buffer strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(stderr, "read error: %v\n", err)
			return
		}
		atEOF := err != nil
		buffer.WriteString(line)
		src := buffer.String()
		if strings.TrimSpace(src) == "" {
			buffer.Reset()
			if atEOF {
				return
			}
			continue
		}
		if needsMore(src) && !atEOF {
			continue
		}
		buffer.Reset()
		evaluate(in, cfg, src, stdout, stderr)
		if atEOF {
			return
		}
	}
}

func runInteractiveREPL(in *runtime.Interpreter, cfg shellConfig) {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	historyPath := replHistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			state.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				state.WriteHistory(f)
				f.Close()
			}
		}()
	}

	var buffer strings.Builder

	for {
		prompt := "lox> "
		if buffer.Len() > 0 {
			prompt = ".... "
		}
		input, err := state.Prompt(prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				fmt.Println()
				buffer.Reset()
				continue
			case errors.Is(err, io.EOF):
				fmt.Println()
				return
			default:
				fmt.Fprintf(os.Stderr, "read error: %v\n", err)
				return
			}
		}
		buffer.WriteString(input)
		buffer.WriteString("\n")

		src := buffer.String()
		if strings.TrimSpace(src) == "" {
			buffer.Reset()
			continue
		}
		if needsMore(src) {
			continue
		}
		buffer.Reset()
		state.AppendHistory(strings.TrimSpace(src))
		evaluate(in, cfg, src, os.Stdout, os.Stderr)
	}
}

func replHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".lox_history")
}

func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
