package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"spec-sync/internal/logger"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compare source annotations against the specification document",
	Long: `Scans the source tree, builds operation and schema descriptors from
the annotations and compares them against the persisted document.

Nothing is written. The exit status reflects the comparison: 0 when
everything is in sync, 1 on drift or when coverage falls below the
configured threshold, 2 on fatal errors.`,
	RunE:          runCheck,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := initLogging(cfg); err != nil {
		return err
	}
	defer logger.Close()

	result, err := runPipeline(cfg)
	if err != nil {
		return err
	}
	rc := result.rc

	printFindings(rc)

	for _, entry := range rc.Drift {
		if entry.Missing {
			fmt.Printf("%s %s: missing from document\n", entry.Kind, entry.Key)
			continue
		}
		fmt.Printf("%s %s: definition differs\n", entry.Kind, entry.Key)
		fmt.Println(entry.Diff)
	}

	ok := checkThreshold(cfg, result.snapshot)

	switch {
	case rc.HasDrift():
		logger.Warn("%d entries out of sync", len(rc.Drift))
		return errDrift
	case !ok:
		return errDrift
	default:
		logger.Info("specification in sync (%d operations, %d schemas)", rc.MatchedOps, rc.MatchedSchemas)
		return nil
	}
}
