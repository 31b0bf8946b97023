package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	scm "github.com/xirelogy/go-scm"
	"github.com/xirelogy/go-scm/internal/value"
)

const (
	historyFile = ".scm_history"
	promptMain  = "scm> "
	promptCont  = "...> "
	demoSource  = "(define x (+ 1 2)) (display x)"
)

var color = isTerminal(os.Stdout) && isTerminal(os.Stderr)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func red(s string) string {
	if !color {
		return s
	}
	return "\x1b[31m" + s + "\x1b[0m"
}

func blue(s string) string {
	if !color {
		return s
	}
	return "\x1b[94m" + s + "\x1b[0m"
}

func main() {
	debug := flag.Bool("debug", false, "dump tokens, expressions and bytecode to stderr")
	expr := flag.String("e", "", "evaluate `source` and exit")
	repl := flag.Bool("repl", false, "start an interactive session")
	limit := flag.Int("limit", 0, "instruction limit per top-level form (0 for none)")
	flag.Usage = usage
	flag.Parse()

	opts := []scm.Option{scm.WithStdout(os.Stdout), scm.WithInstructionLimit(*limit)}
	if *debug {
		opts = append(opts,
			scm.WithDebug(os.Stderr),
			scm.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	it := scm.New(opts...)

	switch {
	case *expr != "":
		os.Exit(run(it, "-e", *expr))
	case *repl:
		os.Exit(cmdRepl(it))
	case flag.NArg() == 0:
		os.Exit(run(it, "demo", demoSource))
	case flag.Arg(0) == "-":
		if isTerminal(os.Stdin) {
			os.Exit(cmdRepl(it))
		}
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			os.Exit(1)
		}
		os.Exit(run(it, "stdin", string(src)))
	default:
		path := flag.Arg(0)
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			os.Exit(1)
		}
		os.Exit(run(it, filepath.Base(path), string(src)))
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: scm [flags] [file | -]

With no arguments the demo program %q is run.
A "-" argument reads source from stdin, or starts the REPL on a terminal.

flags:
`, demoSource)
	flag.PrintDefaults()
}

func run(it *scm.Interpreter, name, src string) int {
	if _, err := it.EvalSource(name, src); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	fmt.Fprintln(os.Stdout)
	return 0
}

func cmdRepl(it *scm.Interpreter) int {
	fmt.Println("scm REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		code, ok := readForm(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return 0
			case ":globals":
				for _, name := range it.Globals() {
					v, _ := it.Global(name)
					fmt.Printf("%s = %s\n", name, v)
				}
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		v, err := it.EvalSource("repl", code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		if v.Kind == value.KindEof {
			// output procedures already wrote their text
			fmt.Println()
			continue
		}
		fmt.Println(blue(v.String()))
	}
}

// readForm keeps prompting while the buffered input is an unfinished form.
func readForm(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := scm.Parse(src); perr != nil && scm.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
