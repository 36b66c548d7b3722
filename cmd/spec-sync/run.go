package main

import (
	"fmt"
	"os"
	"path/filepath"

	"spec-sync/internal/annotation"
	"spec-sync/internal/collector"
	"spec-sync/internal/config"
	"spec-sync/internal/coverage"
	"spec-sync/internal/exporter"
	"spec-sync/internal/logger"
	"spec-sync/internal/merge"
	"spec-sync/internal/model"
	"spec-sync/internal/registry"
	"spec-sync/internal/scanner"
	"spec-sync/internal/specdoc"
	"spec-sync/internal/translator"
	"spec-sync/internal/ui"
)

// runResult is everything the check and fix commands need after the
// comparison pass.
type runResult struct {
	rc       *model.RunContext
	snapshot model.Snapshot
	merger   *merge.Merger
	doc      *specdoc.Document
}

// initLogging configures the dual console/file logger from config
func initLogging(cfg *config.Config) error {
	logPath := ""
	if cfg.Coverage.ReportPath != "" || len(cfg.Output.Formats) > 0 {
		if err := cfg.EnsureOutputDir(); err != nil {
			return err
		}
		logPath = filepath.Join(cfg.Output.Dir, "spec-sync.log")
	}
	return logger.Init(os.Stdout, logPath, flagVerbose, logger.ColorMode(cfg.Output.Color))
}

// runPipeline drives one full scan → extract → resolve → compare pass
// and computes the coverage snapshot. It never writes the document.
func runPipeline(cfg *config.Config) (*runResult, error) {
	rc := model.NewRunContext()
	logger.Debug("run %s starting", rc.RunID)

	pipeline := ui.NewPipeline([]ui.Phase{
		ui.PhaseScanning,
		ui.PhaseExtracting,
		ui.PhaseResolving,
		ui.PhaseComparing,
		ui.PhaseReporting,
	})
	if cfg.Output.NoProgress {
		pipeline.Disable()
	}
	defer pipeline.Finish()

	// --- Phase 1: Scanning ---
	scanBar := pipeline.NextPhase(100)
	sc := scanner.New(cfg.ShouldIgnore)
	scanned, err := sc.Scan([]string{cfg.Source.Handlers, cfg.Source.Models}, func() {
		scanBar.Increment()
	})
	if err != nil {
		return nil, err
	}
	scanBar.Finish()
	logger.Info("scanned %d files (%d ignored)", len(scanned.Files), len(scanned.IgnoredFiles))

	for _, ignored := range scanned.IgnoredFiles {
		rc.Ignored = append(rc.Ignored, model.IgnoredHandler{
			Key:    ignored.Path,
			Reason: ignored.Reason,
		})
	}

	// --- Phase 2: Extracting ---
	extractBar := pipeline.NextPhase(len(scanned.Files))
	extractor := annotation.NewExtractor(cfg.Source.APIAlias)

	var fileAnns []*annotation.FileAnnotations
	for _, f := range scanned.Files {
		ann, err := extractor.ExtractFile(f)
		if err != nil {
			return nil, err
		}
		for _, w := range ann.Warnings {
			logger.Warn("%s: %s", w.Pos, w.Msg)
		}
		fileAnns = append(fileAnns, ann)
		extractBar.Increment()
	}
	extractBar.Finish()

	// --- Phase 3: Resolving ---
	resolveBar := pipeline.NextPhase(len(fileAnns) + 1)

	reg := registry.New()
	if err := collector.Register(reg, fileAnns); err != nil {
		return nil, err
	}
	resolveBar.Increment()

	tr := translator.New(reg)
	builder := annotation.NewBuilder(tr)

	var handlers []*annotation.HandlerDecl
	var componentDecls []*annotation.ComponentDecl
	for _, ann := range fileAnns {
		handlers = append(handlers, ann.Handlers...)
		componentDecls = append(componentDecls, ann.Components...)
		resolveBar.Increment()
	}

	built, err := builder.Build(handlers)
	if err != nil {
		return nil, err
	}
	components, err := collector.Collect(componentDecls, tr)
	if err != nil {
		return nil, err
	}
	resolveBar.Finish()

	rc.Operations = built.Operations
	rc.Components = components
	rc.MissingBlock = built.MissingBlock
	rc.Ignored = append(rc.Ignored, built.Ignored...)
	rc.HandlersConsidered = built.Considered
	rc.WithDocBlock = built.WithDoc
	rc.ComponentsSkipped = len(componentDecls) - len(components)

	logger.Info("built %d operations, %d schema components", len(rc.Operations), len(rc.Components))

	// --- Phase 4: Comparing ---
	compareBar := pipeline.NextPhase(len(rc.Operations) + len(rc.Components))
	doc, err := specdoc.Load(cfg.Document.Path)
	if err != nil {
		return nil, err
	}
	merger := merge.New(doc)
	if err := merger.Compare(rc); err != nil {
		return nil, err
	}
	compareBar.Finish()

	// --- Phase 5: Reporting ---
	reportBar := pipeline.NextPhase(4)
	snapshot := coverage.Compute(rc)

	if err := writeArtifacts(cfg, rc, snapshot, reportBar); err != nil {
		return nil, err
	}
	reportBar.Finish()

	return &runResult{rc: rc, snapshot: snapshot, merger: merger, doc: doc}, nil
}

// writeArtifacts emits the coverage report, badge, markdown summary
// and any extra report formats the run asked for.
func writeArtifacts(cfg *config.Config, rc *model.RunContext, snapshot model.Snapshot, bar *ui.ProgressBar) error {
	if cfg.Coverage.ReportPath != "" {
		var out []byte
		var err error
		switch cfg.Coverage.Format {
		case "text":
			out = coverage.RenderText(snapshot)
		case "xml":
			out, err = coverage.RenderXML(snapshot)
		default:
			out, err = coverage.RenderJSON(snapshot)
		}
		if err != nil {
			return err
		}
		if err := os.WriteFile(cfg.Coverage.ReportPath, out, 0644); err != nil {
			return fmt.Errorf("writing coverage report: %w", err)
		}
		logger.Info("coverage report written to %s", cfg.Coverage.ReportPath)
	}
	bar.Increment()

	if cfg.Coverage.BadgePath != "" {
		badge := coverage.RenderBadge(snapshot.CoveragePercent)
		if err := os.WriteFile(cfg.Coverage.BadgePath, badge, 0644); err != nil {
			return fmt.Errorf("writing badge: %w", err)
		}
	}
	bar.Increment()

	if cfg.Coverage.Summary != "" {
		summary := coverage.RenderMarkdown(rc, snapshot)
		if err := os.WriteFile(cfg.Coverage.Summary, summary, 0644); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}
	bar.Increment()

	if len(cfg.Output.Formats) > 0 {
		if err := cfg.EnsureOutputDir(); err != nil {
			return err
		}
		for _, exp := range exporter.GetExporters(cfg.Output.Formats) {
			if err := exp.Export(rc, snapshot, cfg); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
		}
	}
	bar.Increment()

	return nil
}

// printFindings handles the --show-* listings shared by check and fix
func printFindings(rc *model.RunContext) {
	if flagShowOrphans && (len(rc.OrphanOperations) > 0 || len(rc.OrphanSchemas) > 0) {
		fmt.Println("Orphans (document entries with no source declaration):")
		for _, key := range rc.OrphanOperations {
			fmt.Printf("  operation %s\n", key)
		}
		for _, name := range rc.OrphanSchemas {
			fmt.Printf("  schema %s\n", name)
		}
	}

	if flagShowIgnored && len(rc.Ignored) > 0 {
		fmt.Println("Ignored:")
		for _, ig := range rc.Ignored {
			fmt.Printf("  %s (%s)\n", ig.Key, ig.Reason)
		}
	}

	if flagShowMissingBlock && len(rc.MissingBlock) > 0 {
		fmt.Println("Routed handlers without documentation:")
		for _, key := range rc.MissingBlock {
			fmt.Printf("  %s\n", key)
		}
	}
}

// checkThreshold logs and reports whether the coverage gate passed
func checkThreshold(cfg *config.Config, snapshot model.Snapshot) bool {
	if cfg.Coverage.Threshold <= 0 {
		return true
	}
	if coverage.MeetsThreshold(snapshot, cfg.Coverage.Threshold) {
		return true
	}
	logger.Error("coverage %.1f%% below threshold %.1f%%", snapshot.CoveragePercent, cfg.Coverage.Threshold)
	return false
}
