package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coros-extract/internal/coros"
	"coros-extract/internal/model"
	"coros-extract/internal/store"
)

// Exporter downloads the original activity files in one format. It walks
// the same listing as the extractor and fetches each activity's detail for
// the name and start time that go into the output filename, then diverges
// into the download-and-write step.
type Exporter struct {
	client *coros.Client
	dir    *store.ExportDir
	logger *zap.Logger
}

// NewExporter creates an exporter over the given client and export sink.
func NewExporter(client *coros.Client, dir *store.ExportDir, logger *zap.Logger) *Exporter {
	return &Exporter{client: client, dir: dir, logger: logger}
}

// Run exports every activity as fileType. Activities whose detail fetch
// fails are skipped like in extraction; a format the vendor does not offer
// for an activity's sport type is an expected skip, logged at info level.
func (e *Exporter) Run(ctx context.Context, account, password string, fileType coros.FileType) (*Result, error) {
	logger := e.logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.Stringer("file_type", fileType))

	sess, err := e.client.Login(ctx, account, password)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	entries, err := e.client.ListActivities(ctx, sess, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}

	result := &Result{Listed: len(entries)}

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

		summary, err := model.NewSummary(detail.Summary)
		if err != nil {
			logger.Error("skipping activity, summary did not normalize",
				zap.String("label_id", entry.LabelID),
				zap.Error(err))
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Errorf("activity %s: %w", entry.LabelID, err))
			continue
		}

		url, err := e.client.RequestExportURL(ctx, sess, entry, fileType)
		if errors.Is(err, coros.ErrFormatUnavailable) {
			// Expected for some sport types, not a failure.
			logger.Info("format not available for this activity",
				zap.String("label_id", entry.LabelID),
				zap.Int("sport_type", entry.SportType))
			result.Skipped++
			continue
		}
		if err != nil {
			logger.Error("skipping activity, export request failed",
				zap.String("label_id", entry.LabelID),
				zap.Error(err))
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Errorf("activity %s: %w", entry.LabelID, err))
			continue
		}

		filename := store.Filename(summary.StartTimestamp, summary.Name, entry.LabelID, fileType)
		logger.Debug("downloading export",
			zap.String("label_id", entry.LabelID),
			zap.String("url", url),
			zap.String("file", filename))

		body, err := e.client.Download(ctx, url)
		if err != nil {
			logger.Error("skipping activity, download failed",
				zap.String("label_id", entry.LabelID),
				zap.Error(err))
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Errorf("activity %s: %w", entry.LabelID, err))
			continue
		}

		_, err = e.dir.Write(filename, body)
		body.Close()
		if err != nil {
			logger.Error("skipping activity, write failed",
				zap.String("label_id", entry.LabelID),
				zap.Error(err))
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Errorf("activity %s: %w", entry.LabelID, err))
			continue
		}

		result.Processed++
	}

	logger.Info("export finished",
		zap.Int("listed", result.Listed),
		zap.Int("exported", result.Processed),
		zap.Int("skipped", result.Skipped))
	return result, nil
}
