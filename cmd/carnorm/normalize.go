package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"carnorm/internal/config"
	"carnorm/internal/errors"
	"carnorm/internal/export"
	"carnorm/internal/logging"
	"carnorm/internal/pipeline"
	"carnorm/internal/source"
	"carnorm/internal/watcher"
)

var (
	normalizeOutput string
	normalizeFormat string
	normalizeIndent bool
	normalizeWatch  bool
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [path|-]",
	Short: "Normalize and sort a JSON array of car records",
	Long: `Read a JSON array of car records from a file (or stdin when the path is
"-" or omitted), normalize every record, sort them, and write the result.

The input may be gzip or zstd compressed. If any record is malformed nothing
is written and the command exits non-zero.

With --watch the input file is normalized again every time it changes until
the command is interrupted. Failures are logged and do not stop watching.

Examples:
  carnorm normalize cars.json
  carnorm normalize cars.json.gz -o sorted.json
  carnorm normalize cars.json -o sorted.json --watch
  cat cars.json | carnorm normalize --format yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeOutput, "output", "o", "",
		"Write the result to this file instead of stdout")
	normalizeCmd.Flags().StringVar(&normalizeFormat, "format", "",
		"Output format: json, yaml or toml (default from config)")
	normalizeCmd.Flags().BoolVar(&normalizeIndent, "indent", false,
		"Pretty-print JSON output")
	normalizeCmd.Flags().BoolVarP(&normalizeWatch, "watch", "w", false,
		"Normalize again whenever the input file changes")
	rootCmd.AddCommand(normalizeCmd)
}

func inputPath(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return source.Stdin
}

// outputOptions resolves the output format: flags win over config.
func outputOptions(cmd *cobra.Command, cfg *config.Config) (export.Options, error) {
	name := cfg.Output.Format
	if normalizeFormat != "" {
		name = normalizeFormat
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		return export.Options{}, err
	}

	indent := cfg.Output.Indent
	if cmd.Flags().Changed("indent") {
		indent = normalizeIndent
	}
	return export.Options{Format: format, Indent: indent}, nil
}

// normalizeJob is one configured normalize invocation.
type normalizeJob struct {
	cmd    *cobra.Command
	logger *logging.Logger
	reader *source.Reader
	input  string
	output string
	opts   export.Options
}

func (j *normalizeJob) run() error {
	input, err := j.reader.Read(j.input)
	if err != nil {
		return err
	}

	start := time.Now()
	records, err := pipeline.Process(input)
	if err != nil {
		return err
	}
	data, err := pipeline.Export(records, j.opts)
	if err != nil {
		return err
	}

	if err := writeResult(j.cmd.OutOrStdout(), j.output, data); err != nil {
		return err
	}

	j.logger.Debug("Normalized records", map[string]interface{}{
		"input":      j.input,
		"output":     j.output,
		"records":    len(records),
		"format":     string(j.opts.Format),
		"durationMs": time.Since(start).Milliseconds(),
	})
	return nil
}

func runNormalize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	opts, err := outputOptions(cmd, cfg)
	if err != nil {
		return err
	}

	path := inputPath(args)
	if normalizeWatch && path == source.Stdin {
		return errors.NewInvalidParameter("watch", "requires an input file, not stdin")
	}
	if normalizeWatch && sameFile(path, normalizeOutput) {
		return errors.NewInvalidParameter("output", "must differ from the watched input")
	}

	job := &normalizeJob{
		cmd:    cmd,
		logger: logger,
		reader: &source.Reader{MaxBytes: cfg.Input.MaxBytes, Stdin: cmd.InOrStdin()},
		input:  path,
		output: normalizeOutput,
		opts:   opts,
	}
	if !normalizeWatch {
		return job.run()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	return watchNormalize(ctx, job, debounce)
}

func sameFile(a, b string) bool {
	if b == "" || b == "-" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// watchNormalize runs job once and again after every change to its input,
// until ctx is done.
func watchNormalize(ctx context.Context, job *normalizeJob, debounce time.Duration) error {
	runLogged := func() {
		if err := job.run(); err != nil {
			job.logger.Error("Normalize failed", map[string]interface{}{
				"input": job.input,
				"error": err.Error(),
			})
		}
	}

	var mu sync.Mutex
	w, err := watcher.New(watcher.Config{Debounce: debounce}, job.logger, func(events []watcher.Event) {
		mu.Lock()
		defer mu.Unlock()
		job.logger.Info("Input changed", map[string]interface{}{
			"input":  job.input,
			"events": len(events),
		})
		runLogged()
	})
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(job.input); err != nil {
		return errors.NewIOFailure(job.input, err)
	}

	mu.Lock()
	runLogged()
	mu.Unlock()

	job.logger.Info("Watching for changes", map[string]interface{}{
		"input": job.input,
	})
	return w.Run(ctx)
}
