// Package service holds the orchestrators that drive a full run: listing,
// per-activity fetching and the output step, extraction and export sharing
// the same client machinery.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coros-extract/internal/coros"
	"coros-extract/internal/model"
	"coros-extract/internal/store"
)

// Extractor drives the extraction pipeline: login, discovery-mode listing,
// per-activity detail fetch, normalization, JSON persistence.
type Extractor struct {
	client *coros.Client
	store  *store.JSONStore
	logger *zap.Logger
}

// NewExtractor creates an extractor over the given client and output store.
func NewExtractor(client *coros.Client, st *store.JSONStore, logger *zap.Logger) *Extractor {
	return &Extractor{client: client, store: st, logger: logger}
}

// Result summarizes one orchestrator run.
type Result struct {
	Listed    int
	Processed int
	Skipped   int
	Errors    []error
}

// Run executes one extraction. Per-activity failures -- retry exhaustion,
// transport errors, payloads that fail to normalize -- are logged, counted
// and skipped; only login, the listing and the final write can fail the run.
// The output is therefore always best-effort.
func (e *Extractor) Run(ctx context.Context, account, password string) (*Result, error) {
	logger := e.logger.With(zap.String("run_id", uuid.NewString()))

	sess, err := e.client.Login(ctx, account, password)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	entries, err := e.client.ListActivities(ctx, sess, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}

	result := &Result{Listed: len(entries)}
	// Initialized as soon as the listing succeeds, so an account with zero
	// activities still gets an empty JSON array written.
	collection := model.Collection{}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		detail, err := e.client.FetchDetail(ctx, sess, entry)
		if err != nil {
			logger.Error("skipping activity, detail fetch failed",
				zap.String("label_id", entry.LabelID),
				zap.ByteString("entry", entry.Raw),
				zap.Error(err))
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Errorf("activity %s: %w", entry.LabelID, err))
			continue
		}

		activity, err := model.NewActivity(detail)
		if err != nil {
			logger.Error("skipping activity, payload did not normalize",
				zap.String("label_id", entry.LabelID),
				zap.Error(err))
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Errorf("activity %s: %w", entry.LabelID, err))
			continue
		}

		collection.Add(activity)
		result.Processed++
	}

	if err := e.store.Save(collection); err != nil {
		return result, fmt.Errorf("persisting activities: %w", err)
	}

	logger.Info("extraction finished",
		zap.Int("listed", result.Listed),
		zap.Int("extracted", result.Processed),
		zap.Int("skipped", result.Skipped))
	return result, nil
}
