package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dombatch "github.com/kailas-cloud/minutesmind/internal/domain/batch"
	"github.com/kailas-cloud/minutesmind/internal/domain/note"
	"github.com/kailas-cloud/minutesmind/internal/ingest/watch"
	ingestuc "github.com/kailas-cloud/minutesmind/internal/usecase/ingest"
)

var (
	flagPath      string
	flagRebuild   bool
	flagBatchSize int
	flagWorkers   int
	flagWatch     bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Chunk, embed and store every meeting note under --path",
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&flagPath, "path", "", "root directory of .txt/.md notes")
	ingestCmd.Flags().BoolVar(&flagRebuild, "rebuild", false, "drop the chunk index before ingesting")
	ingestCmd.Flags().IntVar(&flagBatchSize, "batch-size", 48, "texts per embedding request")
	ingestCmd.Flags().IntVar(&flagWorkers, "workers", 0, "parallel files (default ingest.workers)")
	ingestCmd.Flags().BoolVar(&flagWatch, "watch", false, "keep running and re-ingest changed files")
	_ = ingestCmd.MarkFlagRequired("path")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	env, cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("batch-size") {
		cfg.Embedding.BatchSize = flagBatchSize
	}
	if cmd.Flags().Changed("workers") {
		cfg.Ingest.Workers = flagWorkers
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, env, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	svc, err := a.ingestService()
	if err != nil {
		return err
	}

	start := time.Now()
	report, runErr := svc.Run(ctx, ingestuc.Request{Root: flagPath, Rebuild: flagRebuild})
	printReport(cmd.OutOrStdout(), report, time.Since(start))

	if !flagWatch {
		return runErr
	}
	if runErr != nil {
		a.logger.Error("Initial ingestion failed, watching anyway", zap.Error(runErr))
	}

	w, err := watch.New(flagPath, time.Duration(cfg.Ingest.WatchDebounceMs)*time.Millisecond, a.logger)
	if err != nil {
		return err
	}
	return w.Run(ctx, func(ctx context.Context, files []note.File) {
		start := time.Now()
		report, err := svc.IngestFiles(ctx, files)
		printReport(cmd.OutOrStdout(), report, time.Since(start))
		if err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("Re-ingestion failed", zap.Int("files", len(files)), zap.Error(err))
		}
	})
}

func printReport(out io.Writer, r ingestuc.Report, elapsed time.Duration) {
	for _, f := range r.Files {
		switch f.Status() {
		case dombatch.StatusStored:
			fmt.Fprintf(out, "  stored   %s (%s, %d chunks)\n", f.RelPath(), f.MeetingDate(), f.Chunks())
		default:
			fmt.Fprintf(out, "  %-8s %s: %v\n", f.Status(), f.RelPath(), f.Err())
		}
	}
	fmt.Fprintf(out, "Done in %s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(out, "  Files:   %d total, %d stored, %d skipped, %d failed\n",
		len(r.Files), r.Stored, r.Skipped, r.Failed)
	fmt.Fprintf(out, "  Chunks:  %d\n", r.Chunks)
}
