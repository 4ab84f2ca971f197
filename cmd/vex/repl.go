package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	vex "github.com/vexlang/vex"
	"github.com/vexlang/vex/pkg/diagnostic"
	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/runtime"
	"github.com/vexlang/vex/pkg/value"
)

// repl runs an interactive session against a single persistent event. Each
// line compiles as its own program, so variables do not carry across lines;
// the event does.
func repl(opts *options) error {
	loc, err := time.LoadLocation(opts.timezone)
	if err != nil {
		return fmt.Errorf("unknown timezone %q", opts.timezone)
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := filepath.Join(os.TempDir(), ".vex_history")
	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Printf("vex %s - type a program, \"help\" or \"exit\"\n", vex.Version())

	target := expression.NewTargetValue(value.NewObject())
	rt := runtime.NewRuntime(runtime.WithLogger(slog.Default()))

	for {
		input, err := line.Prompt("> ")
		if err != nil {
			// Ctrl-C or Ctrl-D ends the session.
			fmt.Println()
			return nil
		}

		switch strings.TrimSpace(input) {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "help":
			fmt.Println("Enter a Vex program to run it against the session event.")
			fmt.Println("  .            print the whole event")
			fmt.Println("  .field = 1   mutate the event")
			fmt.Println("  exit         leave the session")
			continue
		}
		line.AppendHistory(input)

		result, diags := vex.Compile(input)
		if len(diags) > 0 {
			formatter := diagnostic.NewFormatter(input, diags)
			if opts.color {
				formatter = formatter.Colored()
			}
			fmt.Println(formatter.String())
		}
		if diags.HasErrors() {
			continue
		}

		// Each line compiles as a fresh program, so a variable from an
		// earlier line would be undefined at compile time anyway; drop the
		// store to match.
		rt.Clear()
		out, err := rt.Resolve(target, result.Program, loc)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(value.Format(out))
	}
}
