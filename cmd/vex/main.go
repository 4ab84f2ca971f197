// Command vex compiles and runs Vex programs against a stream of events.
//
// Events are read as NDJSON (one JSON document per line) or YAML documents,
// transformed by the program, and written back out as NDJSON. A failing
// event is reported on stderr and skipped; the stream continues.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	vex "github.com/vexlang/vex"
	"github.com/vexlang/vex/pkg/compiler"
	"github.com/vexlang/vex/pkg/diagnostic"
	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/runtime"
	"github.com/vexlang/vex/pkg/value"
)

type options struct {
	program     string
	input       string
	format      string
	timezone    string
	color       bool
	printResult bool
	verbose     bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "vex [program file]",
		Short:         "Compile and run Vex programs",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(opts.verbose)
			if len(args) == 0 && opts.program == "" {
				return repl(&opts)
			}

			source := opts.program
			if len(args) == 1 {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				source = string(data)
			}
			return run(cmd, &opts, source)
		},
	}

	cmd.Flags().StringVarP(&opts.program, "program", "p", "", "program source (instead of a file)")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "event input file (default stdin)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "event input format: json or yaml")
	cmd.Flags().StringVarP(&opts.timezone, "timezone", "z", "UTC", "timezone for time functions")
	cmd.Flags().BoolVar(&opts.color, "color", false, "colorize diagnostics")
	cmd.Flags().BoolVar(&opts.printResult, "print-result", false, "print the program result instead of the event")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log program output at debug level")

	return cmd
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func run(cmd *cobra.Command, opts *options, source string) error {
	program, err := compile(cmd.ErrOrStderr(), opts, source)
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(opts.timezone)
	if err != nil {
		return fmt.Errorf("unknown timezone %q", opts.timezone)
	}

	in := cmd.InOrStdin()
	if opts.input != "" {
		f, err := os.Open(opts.input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	events, err := readEvents(in, opts.format)
	if err != nil {
		return err
	}

	rt := runtime.NewRuntime(runtime.WithLogger(slog.Default()))
	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()

	for i, event := range events {
		// Each document gets a fresh variable store.
		rt.Clear()
		target := expression.NewTargetValue(event)
		result, err := rt.Resolve(target, program, loc)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "event %d: %s\n", i+1, err)
			continue
		}

		printed := target.Value
		if opts.printResult {
			printed = result
		}
		data, err := value.ToJSON(printed)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "event %d: %s\n", i+1, err)
			continue
		}
		out.Write(data)
		out.WriteByte('\n')
	}
	return nil
}

// compile compiles the source, printing all diagnostics, and fails when any
// are errors.
func compile(stderr io.Writer, opts *options, source string) (*compiler.Program, error) {
	result, diags := vex.Compile(source)
	if len(diags) > 0 {
		formatter := diagnostic.NewFormatter(source, diags)
		if opts.color {
			formatter = formatter.Colored()
		}
		fmt.Fprintln(stderr, formatter.String())
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("program compilation failed")
	}
	return result.Program, nil
}

// readEvents decodes the whole input into values, one per NDJSON line or
// YAML document.
func readEvents(r io.Reader, format string) ([]value.Value, error) {
	switch format {
	case "json":
		var events []value.Value
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			v, err := value.FromJSON(line)
			if err != nil {
				return nil, fmt.Errorf("invalid JSON event: %s", err)
			}
			events = append(events, v)
		}
		return events, scanner.Err()

	case "yaml":
		var events []value.Value
		dec := yaml.NewDecoder(r)
		for {
			var doc any
			if err := dec.Decode(&doc); err != nil {
				if err == io.EOF {
					return events, nil
				}
				return nil, fmt.Errorf("invalid YAML event: %s", err)
			}
			events = append(events, value.FromAny(doc))
		}

	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
}
