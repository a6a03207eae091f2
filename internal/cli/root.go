package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shawn-b/GuerrillaMailTester/internal/config"
	"github.com/shawn-b/GuerrillaMailTester/internal/driver"
	"github.com/shawn-b/GuerrillaMailTester/internal/metrics"
	"github.com/shawn-b/GuerrillaMailTester/internal/output"
	"github.com/shawn-b/GuerrillaMailTester/internal/report"
	"github.com/shawn-b/GuerrillaMailTester/internal/runner"
	"github.com/spf13/cobra"
)

var cfgFile string

// configErr holds the error from loading the config file, if any. Commands
// that depend on the configuration return it before doing any work.
var configErr error

var (
	rootRun         string
	rootHeadless    bool
	rootMetricsFile string
)

// launchBrowser opens the browser for one run. Tests replace it.
var launchBrowser = func(ctx context.Context, opts driver.Options) (driver.Browser, error) {
	b, err := driver.Launch(ctx, opts)
	if err != nil {
		return nil, err
	}
	return b, nil
}

var rootCmd = &cobra.Command{
	Use:   "gmtest",
	Short: "Guerrilla Mail end-to-end UI tests",
	Long: `gmtest drives a real browser through the Guerrilla Mail web UI.

Each run reads the disposable address, sends an email to itself,
waits for it to arrive, verifies sender, subject and body, and
deletes it. Every step is reported as PASS or FAIL.

Runs come from the config file; with none configured the built-in
suite is executed.

Examples:
  gmtest                              # Run all configured runs
  gmtest --run "Test #2"              # Run matching runs only
  gmtest --headless=false             # Watch the browser
  gmtest -o json > results.json       # Machine readable summary
  gmtest --metrics-file gmtest.prom   # Prometheus textfile output`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// ExecuteContext runs the root command under ctx. Errors other than
// cancellation are printed to stderr.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, output.PrintError(err.Error()))
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.config/gmtest/config.yaml)")

	// Global output format flag
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format: pretty, json")

	rootCmd.Flags().StringVar(&rootRun, "run", "",
		"Only execute runs whose name contains this text")
	rootCmd.Flags().BoolVar(&rootHeadless, "headless", true,
		"Run the browser without a window")
	rootCmd.Flags().StringVar(&rootMetricsFile, "metrics-file", "",
		"Write Prometheus metrics to this file after the suite")
}

func initConfig() {
	var configPath string
	if cfgFile != "" {
		configPath = cfgFile
	} else {
		dir, err := config.Dir()
		if err != nil {
			configErr = err
			return
		}
		configPath = filepath.Join(dir, "config.yaml")
	}
	configErr = nil
	if err := config.LoadFromFile(configPath); err != nil {
		configErr = fmt.Errorf("failed to load config: %w", err)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if configErr != nil {
		return configErr
	}

	format := getOutput(cmd)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown output format %q (valid: pretty, json)", format)
	}

	cases, err := selectCases(config.Current().Cases(), rootRun)
	if err != nil {
		return err
	}

	headless := config.GetHeadless()
	if flag := cmd.Flag("headless"); flag != nil && flag.Changed {
		headless = rootHeadless
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	// JSON keeps stdout machine readable; the live table goes to stderr.
	var logOut io.Writer = stdout
	if format == "json" {
		logOut = stderr
	}
	log := report.NewLogger(logOut, report.DefaultNameWidth, report.DefaultResultWidth)
	log.Styled = format == "pretty"

	recorder := metrics.NewRecorder()
	r := runner.New(log,
		runner.WithObserver(recorder),
		runner.WithWarnings(stderr),
	)

	results := r.RunSuite(ctx, cases, func(webDriver string) runner.BrowserFactory {
		return browserFactory(webDriver, headless)
	})

	summaries := make([]report.RunSummary, 0, len(results))
	for _, res := range results {
		summaries = append(summaries, res.Summary())
	}

	if format == "json" {
		if err := report.WriteSummaryJSON(stdout, summaries); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(stdout)
		report.WriteSummaryTable(stdout, summaries)
	}

	if rootMetricsFile != "" {
		if err := recorder.WriteTextfile(rootMetricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		output.Infof(stderr, "Metrics written to %s", rootMetricsFile)
	}

	return ctx.Err()
}

// browserFactory returns a factory opening the browser kind named by
// webDriver, or the configured default kind when empty.
func browserFactory(webDriver string, headless bool) runner.BrowserFactory {
	opts := config.BrowserOptions(webDriver, headless)
	return func(ctx context.Context) (driver.Browser, error) {
		return launchBrowser(ctx, opts)
	}
}

// selectCases keeps the cases whose name contains filter, ignoring case.
func selectCases(cases []runner.Case, filter string) ([]runner.Case, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return cases, nil
	}

	var selected []runner.Case
	for _, c := range cases {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter)) {
			selected = append(selected, c)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no run matches %q", filter)
	}
	return selected, nil
}
