package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"spec-sync/internal/logger"
)

var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Write the reconciled specification document",
	Long: `Runs the same comparison as check, then replaces every drifted
operation and schema entry in the document wholesale and saves it
atomically (temp file + rename). Entries not generated by this run,
including hand-maintained orphans, are left untouched.

Exactly one status line is printed so automation can branch on it.`,
	RunE:          runFix,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func runFix(cmd *cobra.Command, args []string) error {
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

	status, err := result.merger.Apply(rc)
	if err != nil {
		return err
	}
	fmt.Println(status)

	if !checkThreshold(cfg, result.snapshot) {
		return errDrift
	}
	return nil
}
