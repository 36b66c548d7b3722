package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"spec-sync/internal/config"
)

const (
	appName    = "spec-sync"
	appVersion = "1.0.0"
	appDesc    = "Keeps a persisted OpenAPI document in sync with annotated Go handlers and models"
)

// Exit codes. Fatal errors (parse failures, contract violations,
// unresolvable references) use 2 so automation can tell them apart
// from plain drift.
const (
	exitOK    = 0
	exitDrift = 1
	exitFatal = 2
)

// errDrift marks a run that completed but found drift or missed the
// coverage threshold.
var errDrift = errors.New("drift detected")

var (
	cfgFile string

	flagSource    string
	flagHandlers  string
	flagModels    string
	flagDoc       string
	flagIgnore    []string
	flagFormats   []string
	flagColor     string
	flagVerbose   bool
	flagNoProg    bool
	flagReport    string
	flagRepFormat string
	flagThreshold float64
	flagBadge     string
	flagSummary   string

	flagShowOrphans      bool
	flagShowIgnored      bool
	flagShowMissingBlock bool
)

// Built in init so its RunE can reach back through the command's own
// flag set without a package initialization cycle.
var rootCmd *cobra.Command

// Execute runs the root command and maps errors to exit codes
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errDrift) {
			os.Exit(exitDrift)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitFatal)
	}
	os.Exit(exitOK)
}

func init() {
	rootCmd = &cobra.Command{
		Use:     appName,
		Short:   appDesc,
		Version: appVersion,
		Long: appDesc + `.

Handlers and models declare their metadata through inert api.Define and
api.Component calls; spec-sync extracts them, translates the referenced
types to schemas and compares the result against the persisted document.

Run "spec-sync check" in CI to fail on drift, "spec-sync fix" to write
the reconciled document back.`,
		// Bare invocation behaves like check.
		RunE:          runCheck,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()

	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default: ./spec-sync.yaml)")
	pf.StringVar(&flagSource, "source", ".", "source tree root")
	pf.StringVar(&flagHandlers, "handlers", "", "handlers root (default: source root)")
	pf.StringVar(&flagModels, "models", "", "models root (default: source root)")
	pf.StringVar(&flagDoc, "doc", "openapi.yaml", "specification document path")
	pf.StringSliceVar(&flagIgnore, "ignore", nil, "ignore glob (repeatable)")
	pf.StringVar(&flagReport, "coverage-report", "", "coverage report output path")
	pf.StringVar(&flagRepFormat, "coverage-format", "json", "coverage report format (json, text, xml)")
	pf.Float64Var(&flagThreshold, "coverage-threshold", 0, "minimum coverage percentage")
	pf.StringVar(&flagBadge, "badge", "", "SVG badge output path")
	pf.StringVar(&flagSummary, "summary", "", "markdown summary output path")
	pf.StringSliceVar(&flagFormats, "report-formats", nil, "extra report exporters (html, xlsx, docx)")
	pf.StringVar(&flagColor, "color", "auto", "console colors (auto, always, never)")
	pf.BoolVar(&flagNoProg, "no-progress", false, "disable progress bars")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging (DEBUG level)")

	pf.BoolVar(&flagShowOrphans, "show-orphans", false, "list document entries with no source declaration")
	pf.BoolVar(&flagShowIgnored, "show-ignored", false, "list ignored handlers and files")
	pf.BoolVar(&flagShowMissingBlock, "show-missing-block", false, "list routed handlers without documentation")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
}

// loadConfig loads the config file with every CLI flag bound over it.
// An unchanged flag only supplies its default; config file values win
// over flag defaults, set flags win over everything.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile, bindFlags)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func bindFlags(v *viper.Viper) error {
	pf := rootCmd.PersistentFlags()

	bindings := map[string]string{
		"source.root":          "source",
		"source.handlers":      "handlers",
		"source.models":        "models",
		"source.ignore":        "ignore",
		"document.path":        "doc",
		"coverage.report_path": "coverage-report",
		"coverage.format":      "coverage-format",
		"coverage.threshold":   "coverage-threshold",
		"coverage.badge_path":  "badge",
		"coverage.summary":     "summary",
		"output.formats":       "report-formats",
		"output.color":         "color",
		"output.no_progress":   "no-progress",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, pf.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}
