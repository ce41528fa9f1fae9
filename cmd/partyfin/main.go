package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/warp/partyfin/api"
	"github.com/warp/partyfin/factory"
	"github.com/warp/partyfin/generic"
	"github.com/warp/partyfin/party"
	"github.com/warp/partyfin/report"
	"github.com/warp/partyfin/store/sqlite"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// Exit codes.
const (
	exitGaps   = 2 // band tables do not cover the range
	exitConfig = 3 // invalid scenario or flags
	exitIO     = 4 // reading or writing files, database
)

// scenarioFlags select and override the run configuration.
type scenarioFlags struct {
	config   string
	scenario string
	seed     int64
	start    int
	end      int
	members  float64
	budget   float64
	noEvents bool
	verbose  bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code. Errors are
// printed once, here; cobra's own error printing is silenced.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return 0
	}
	fmt.Fprintln(stderr, "Error:", err)
	var ee *exitErr
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "partyfin",
		Short:         "Generate synthetic annual finance histories",
		Long:          "partyfin generates the 1972-2025 finance history of the FN/RN as a reproducible, seeded table.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newGenerateCmd(), newReportCmd(), newBandsCmd(), newEventsCmd())
	return root
}

// =============================================================================
// GENERATE
// =============================================================================

func newGenerateCmd() *cobra.Command {
	var (
		flags scenarioFlags
		out   string
		db    string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the table and write it as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, result, err := generate(cmd, flags)
			if err != nil {
				return err
			}

			if db != "" {
				if err := persist(cmd.Context(), db, s, result); err != nil {
					return err
				}
			}

			return writeOutput(cmd.OutOrStdout(), out, func(w io.Writer) error {
				return report.WriteCSV(w, result.Table)
			})
		},
	}

	addScenarioFlags(cmd, &flags)
	f := cmd.Flags()
	f.StringVar(&out, "out", "", "Write CSV to file instead of stdout")
	f.StringVar(&db, "db", "", "Also store the run in this SQLite database")
	return cmd
}

func persist(ctx context.Context, path string, s factory.Scenario, result *generic.Result) error {
	store, err := sqlite.New(path)
	if err != nil {
		return codeError(exitIO, "opening database: %s", err)
	}
	defer store.Close()

	run := generic.NewRun(s.Name, result)
	if err := store.SaveRun(ctx, run); err != nil {
		return codeError(exitIO, "saving run: %s", err)
	}
	log.Printf("[cli] run %s stored in %s", run.ID, path)
	return nil
}

// =============================================================================
// REPORT
// =============================================================================

func newReportCmd() *cobra.Command {
	var (
		flags   scenarioFlags
		format  string
		pretty  bool
		fromCSV string
		out     string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the summary report of a generated table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := report.NewRenderer(format)
			if err != nil {
				return codeError(exitConfig, "invalid format: %s", err)
			}
			if pretty && format == "json" {
				return codeError(exitConfig, "--pretty applies to markdown output only")
			}

			name, table, err := reportTable(cmd, flags, fromCSV)
			if err != nil {
				return err
			}

			rep, err := report.Build(name, table)
			if err != nil {
				return codeError(exitConfig, "summarizing: %s", err)
			}
			output, err := renderer.Render(rep)
			if err != nil {
				return codeError(exitIO, "rendering output: %s", err)
			}

			if pretty {
				tr, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
				if err != nil {
					return codeError(exitIO, "creating terminal renderer: %s", err)
				}
				styled, err := tr.Render(string(output))
				if err != nil {
					return codeError(exitIO, "rendering markdown: %s", err)
				}
				output = []byte(styled)
			}

			return writeOutput(cmd.OutOrStdout(), out, func(w io.Writer) error {
				_, err := w.Write(output)
				return err
			})
		},
	}

	addScenarioFlags(cmd, &flags)
	f := cmd.Flags()
	f.StringVar(&format, "format", "md", "Output format: md or json")
	f.BoolVar(&pretty, "pretty", false, "Render markdown for the terminal")
	f.StringVar(&fromCSV, "from-csv", "", "Summarize an existing CSV table instead of generating one")
	f.StringVar(&out, "out", "", "Write output to file instead of stdout")
	return cmd
}

// reportTable generates a table or reads it from CSV.
func reportTable(cmd *cobra.Command, flags scenarioFlags, fromCSV string) (string, *generic.Table, error) {
	if fromCSV == "" {
		s, result, err := generate(cmd, flags)
		if err != nil {
			return "", nil, err
		}
		return s.Name, result.Table, nil
	}

	f, err := os.Open(fromCSV)
	if err != nil {
		return "", nil, codeError(exitIO, "opening CSV: %s", err)
	}
	defer f.Close()

	table, err := report.ReadCSV(f)
	if err != nil {
		return "", nil, codeError(exitConfig, "reading CSV: %s", err)
	}
	return fromCSV, table, nil
}

// =============================================================================
// BANDS
// =============================================================================

func newBandsCmd() *cobra.Command {
	var (
		start int
		end   int
		all   bool
	)
	cmd := &cobra.Command{
		Use:   "bands",
		Short: "Check that every band table covers the year range",
		Long:  "Checks every band table of every column for gaps and overlaps. Exits 2 if any table is incomplete.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := generic.Span(generic.Year(start), generic.Year(end))
			if !r.Valid() {
				return codeError(exitConfig, "%s: %d-%d", generic.ErrInvalidRange, start, end)
			}

			coverage := party.Model().Coverage(r)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TABLE\tSTATUS\tDETAIL")

			incomplete := 0
			for _, c := range coverage {
				if c.Complete() {
					if all {
						fmt.Fprintf(w, "%s\tok\t\n", c.Table)
					}
					continue
				}
				incomplete++
				fmt.Fprintf(w, "%s\tINCOMPLETE\t%s\n", c.Table, coverageDetail(c))
			}
			fmt.Fprintf(w, "\n%d tables checked over %s, %d incomplete\n", len(coverage), r, incomplete)
			if err := w.Flush(); err != nil {
				return codeError(exitIO, "writing output: %s", err)
			}

			if incomplete > 0 {
				return codeError(exitGaps, "%d band tables do not cover %s", incomplete, r)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&start, "start", int(party.FirstYear), "First year to check")
	f.IntVar(&end, "end", int(party.LastYear), "Last year to check")
	f.BoolVar(&all, "all", false, "List complete tables too")
	return cmd
}

func coverageDetail(c generic.Coverage) string {
	var parts []string
	for _, g := range c.Gaps {
		parts = append(parts, "gap "+g.String())
	}
	for _, o := range c.Overlaps {
		parts = append(parts, "overlap "+o.String())
	}
	return strings.Join(parts, ", ")
}

// =============================================================================
// EVENTS
// =============================================================================

func newEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List the historical events and the rules they apply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "YEAR\tEVENT\tATTRIBUTE\tOP\tVALUE")
			for _, e := range party.Events() {
				for _, r := range e.Rules {
					op := r.Op
					if op == "" {
						op = generic.OpMultiply
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%g\n", e.Year, e.Key, r.Attribute, op, r.Value)
				}
			}
			if err := w.Flush(); err != nil {
				return codeError(exitIO, "writing output: %s", err)
			}
			return nil
		},
	}
}

// =============================================================================
// SHARED
// =============================================================================

func addScenarioFlags(cmd *cobra.Command, flags *scenarioFlags) {
	f := cmd.Flags()
	f.StringVar(&flags.config, "config", "", "Scenario JSON file")
	f.StringVar(&flags.scenario, "scenario", "", "Preset scenario: "+strings.Join(api.ScenarioIDs(), ", "))
	f.Int64Var(&flags.seed, "seed", 42, "Random seed")
	f.IntVar(&flags.start, "start", int(party.FirstYear), "First year")
	f.IntVar(&flags.end, "end", int(party.LastYear), "Last year")
	f.Float64Var(&flags.members, "members", party.DefaultBases.Members, "Members base")
	f.Float64Var(&flags.budget, "budget", party.DefaultBases.Budget, "Budget base (M€)")
	f.BoolVar(&flags.noEvents, "no-events", false, "Skip the historical event overlay")
	f.BoolVar(&flags.verbose, "verbose", false, "Log overlay and band warnings to stderr")
}

// resolveScenario loads --config or --scenario, then applies explicit flags.
func resolveScenario(cmd *cobra.Command, flags scenarioFlags) (factory.Scenario, error) {
	f := factory.NewScenarioFactory()
	s := factory.Scenario{Name: "reference", Config: party.DefaultConfig()}

	switch {
	case flags.config != "" && flags.scenario != "":
		return s, codeError(exitConfig, "--config and --scenario are mutually exclusive")
	case flags.config != "":
		data, err := os.ReadFile(flags.config)
		if err != nil {
			return s, codeError(exitIO, "reading config: %s", err)
		}
		parsed, err := f.ParseScenario(string(data))
		if err != nil {
			return s, codeError(exitConfig, "%s", err)
		}
		s = parsed
	case flags.scenario != "":
		parsed, err := api.LookupScenario(f, flags.scenario)
		if err != nil {
			return s, codeError(exitConfig, "%s", err)
		}
		s = parsed
	}

	changed := cmd.Flags().Changed
	if changed("seed") {
		s.Config.Seed = flags.seed
	}
	if changed("start") {
		s.Config.Start = generic.Year(flags.start)
	}
	if changed("end") {
		s.Config.End = generic.Year(flags.end)
	}
	if changed("members") {
		s.Config.Bases.Members = flags.members
	}
	if changed("budget") {
		s.Config.Bases.Budget = flags.budget
	}
	if changed("no-events") {
		s.Config.DisableEvents = flags.noEvents
	}

	if err := s.Config.Validate(); err != nil {
		return s, codeError(exitConfig, "%s", err)
	}
	return s, nil
}

// generate resolves the scenario and runs the engine.
func generate(cmd *cobra.Command, flags scenarioFlags) (factory.Scenario, *generic.Result, error) {
	s, err := resolveScenario(cmd, flags)
	if err != nil {
		return s, nil, err
	}

	engine := generic.NewEngine(party.Model())
	engine.Logger = log.New(io.Discard, "", 0)
	if flags.verbose {
		engine.Logger = log.New(cmd.ErrOrStderr(), "", 0)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := engine.Generate(ctx, s.Config)
	if err != nil {
		if generic.IsConfigError(err) {
			return s, nil, codeError(exitConfig, "%s", err)
		}
		return s, nil, err
	}
	return s, result, nil
}

// writeOutput writes to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		if err := write(stdout); err != nil {
			return codeError(exitIO, "writing output: %s", err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return codeError(exitIO, "creating output file: %s", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return codeError(exitIO, "writing output file: %s", err)
	}
	if err := f.Close(); err != nil {
		return codeError(exitIO, "closing output file: %s", err)
	}
	return nil
}
