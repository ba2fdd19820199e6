package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"carnorm/internal/pipeline"
	"carnorm/internal/source"
)

var validateCmd = &cobra.Command{
	Use:   "validate [path|-]",
	Short: "Check that every record can be normalized",
	Long: `Run the full pipeline over the input without writing records. Prints the
record count on success; on failure prints the offending record and field.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	path := inputPath(args)
	reader := &source.Reader{MaxBytes: cfg.Input.MaxBytes, Stdin: cmd.InOrStdin()}
	input, err := reader.Read(path)
	if err != nil {
		return err
	}

	records, err := pipeline.Process(input)
	if err != nil {
		return err
	}

	logger.Debug("Validated records", map[string]interface{}{
		"input":   path,
		"records": len(records),
	})
	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d records\n", len(records))
	return nil
}
