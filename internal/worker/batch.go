package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/citewatch/internal/pipeline"
)

// ErrNotRun marks targets skipped because the batch was cancelled
var ErrNotRun = errors.New("target not processed")

// Tracker tracks one URL or local file
type Tracker interface {
	TrackTarget(ctx context.Context, target string) (*pipeline.Tracked, error)
}

// TrackJob represents a single target to track
type TrackJob struct {
	Target  string
	Tracker Tracker
}

// Execute executes the tracking job
func (j *TrackJob) Execute(ctx context.Context) Result {
	tracked, err := j.Tracker.TrackTarget(ctx, j.Target)
	if err != nil {
		return &TargetResult{Target: j.Target, Error: err}
	}
	return &TargetResult{Target: j.Target, Tracked: tracked}
}

// TargetResult represents the result of a tracking job
type TargetResult struct {
	Target  string
	Tracked *pipeline.Tracked
	Error   error
}

// GetError returns the error from the tracking result
func (r *TargetResult) GetError() error {
	return r.Error
}

// BatchProcessor tracks many targets concurrently
type BatchProcessor struct {
	tracker     Tracker
	concurrency int
	logger      *zap.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(tracker Tracker, concurrency int, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		tracker:     tracker,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ProcessTargets tracks every target and returns one result per target, in
// input order
func (b *BatchProcessor) ProcessTargets(ctx context.Context, targets []string) []*TargetResult {
	if len(targets) == 0 {
		return []*TargetResult{}
	}

	pool := NewPoolWithContext(ctx, b.concurrency)
	pool.Start()

	for _, target := range targets {
		if !pool.Submit(&TrackJob{Target: target, Tracker: b.tracker}) {
			break
		}
	}

	results := pool.Wait()

	out := make([]*TargetResult, len(targets))
	failures := 0
	for i, target := range targets {
		if i < len(results) && results[i] != nil {
			out[i] = results[i].(*TargetResult)
		} else {
			out[i] = &TargetResult{Target: target, Error: notRun(ctx)}
		}
		if out[i].Error != nil {
			failures++
			b.logger.Warn("Target failed", zap.String("target", target), zap.Error(out[i].Error))
		}
	}

	b.logger.Info("Batch complete",
		zap.Int("targets", len(targets)),
		zap.Int("failures", failures),
		zap.Int("workers", b.concurrency),
	)
	return out
}

func notRun(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrNotRun, err)
	}
	return ErrNotRun
}

// ProcessFile reads targets from a file and tracks them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*TargetResult, error) {
	targets, err := ReadTargetsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read targets: %w", err)
	}

	return b.ProcessTargets(ctx, targets), nil
}

// ReadTargetsFromFile reads URLs or file paths, one per line. Blank lines and
// # comments are skipped and duplicates dropped.
func ReadTargetsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var targets []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			targets = append(targets, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return targets, nil
}
