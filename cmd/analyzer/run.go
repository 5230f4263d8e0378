package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"

	"review_insight/internal/app"
	"review_insight/internal/domain"
	"review_insight/internal/loader"
)

func newRunCmd(o *options) *cobra.Command {
	var (
		outDir   string
		parallel int
	)
	cmd := &cobra.Command{
		Use:   "run FILE...",
		Short: "Analyse CSV review files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runFiles(cmd.Context(), cmd.OutOrStdout(), args, outDir, parallel)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory for <name>.analysis.json results")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 2, "files analysed at the same time")
	return cmd
}

func (o *options) runFiles(ctx context.Context, w io.Writer, files []string, outDir string, parallel int) error {
	engine, err := o.engine()
	if err != nil {
		return err
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
	}
	if parallel < 1 {
		parallel = 1
	}

	results := make([]domain.AnalysisResult, len(files))
	errs := make([]error, len(files))
	sem := semaphore.NewWeighted(int64(parallel))
	var wg sync.WaitGroup

	for i, path := range files {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return err
		}
		i, path := i, path
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			results[i], errs[i] = analyzeFile(ctx, engine, o.cfg, path, outDir)
		}()
	}
	wg.Wait()

	failed := 0
	for i, path := range files {
		if errs[i] != nil {
			failed++
			log.Warn().Str("file", path).Err(errs[i]).Msg("analysis failed")
			fmt.Fprintf(w, "%s: %v\n", path, errs[i])
			continue
		}
		printResult(w, path, results[i])
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func analyzeFile(ctx context.Context, e *app.Engine, cfg domain.Config, path, outDir string) (domain.AnalysisResult, error) {
	t, err := loader.ReadFile(path)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	res, err := e.AnalyzeTable(ctx, t, cfg)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	if outDir == "" {
		return res, nil
	}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".analysis.json"
	if err := os.WriteFile(filepath.Join(outDir, name), b, 0o644); err != nil {
		return domain.AnalysisResult{}, err
	}
	return res, nil
}
