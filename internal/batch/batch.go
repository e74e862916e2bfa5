// Package batch runs the upload→analyze flow over local image files.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lehigh-university-libraries/skinscan/internal/intake"
	"github.com/lehigh-university-libraries/skinscan/internal/providers"
	"github.com/lehigh-university-libraries/skinscan/internal/session"
	"golang.org/x/sync/errgroup"
)

// Outcome is the result of analysing one file
type Outcome struct {
	Path           string
	Snapshot       session.Snapshot
	Error          string
	ProcessingTime time.Duration
}

// Run analyses each path with p, at most workers at a time. Outcomes keep
// the order of paths. A file that cannot be read or analysed gets an Error;
// only context cancellation aborts the whole run.
func Run(ctx context.Context, p providers.Provider, paths []string, workers int) ([]Outcome, error) {
	if workers < 1 {
		workers = 1
	}

	slog.Info("Processing images", "count", len(paths), "workers", workers)

	outcomes := make([]Outcome, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			start := time.Now()
			snap, err := analyzeFile(ctx, p, path)
			outcomes[i] = Outcome{Path: path, Snapshot: snap, ProcessingTime: time.Since(start)}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				slog.Error("Failed to analyze image", "path", path, "error", err)
				outcomes[i].Error = err.Error()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

func analyzeFile(ctx context.Context, p providers.Provider, path string) (session.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := intake.Read(f, filepath.Base(path), "", intake.SourcePicker)
	if err != nil {
		return session.Snapshot{}, err
	}

	sess := session.New(filepath.Base(path), p)
	defer sess.Close()

	sess.Upload(img)
	done, _ := sess.Analyze()

	select {
	case <-done:
	case <-ctx.Done():
		return sess.Snapshot(), ctx.Err()
	}

	snap := sess.Snapshot()
	if snap.Result == nil {
		return snap, fmt.Errorf("analysis of %s produced no result", path)
	}
	return snap, nil
}
