// Copyright (c) 2026 Triply. All rights reserved.

package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/triply-app/triply/internal/core/destination"
	"github.com/triply-app/triply/pkg/convert"
)

const (
	// pageSize is the number of records requested per upstream page.
	pageSize = 100

	// batchSize is how many transformed rows are flushed per database batch.
	batchSize = 100

	// maxPages is a hard stop against runaway pagination when the upstream
	// reports an implausible total count.
	maxPages = 200
)

// Catalog is the subset of the destination service the importer needs.
type Catalog interface {
	ImportBatch(ctx context.Context, destinations []*destination.Destination) (int, error)
}

// Importer drives a catalogue import run: fetch, stage, transform, persist.
type Importer struct {
	client     *Client
	catalog    Catalog
	stagingDir string
	logger     *slog.Logger
}

// NewImporter constructs an [Importer].
//
// stagingDir may be empty, in which case raw payload staging is skipped.
func NewImporter(client *Client, catalog Catalog, stagingDir string, logger *slog.Logger) *Importer {
	return &Importer{
		client:     client,
		catalog:    catalog,
		stagingDir: stagingDir,
		logger:     logger,
	}
}

// RunOptions parameterises one import run.
type RunOptions struct {
	// AreaCode selects the upstream region (39 is Jeju).
	AreaCode int

	// ContentTypeID narrows to one content category; 0 imports all.
	ContentTypeID int

	// FetchOverviews additionally pulls the long-form description per row.
	// This multiplies upstream calls by the row count, so it is opt-in.
	FetchOverviews bool
}

// Report summarises the outcome of an import run.
type Report struct {
	Fetched  int      `json:"fetched"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

/*
Run executes a full catalogue import.

Description: Pages through areaBasedList1 until the reported total is
exhausted. Each raw page is staged to disk before transformation, so a bad
import can be diagnosed from the original payloads. Rows that fail to
transform are skipped and recorded; they never abort the run.

Parameters:
  - ctx: Context; cancellation stops the run between pages.
  - options: RunOptions (area, content type, overview fetching)

Returns:
  - *Report: Per-run counters and collected row errors
  - error: Only for failures that abort the run (upstream down, DB down)
*/
func (importer *Importer) Run(ctx context.Context, options RunOptions) (*Report, error) {
	report := &Report{}
	runStamp := time.Now().Format("20060102-150405")

	var pending []*destination.Destination

	for pageNo := 1; pageNo <= maxPages; pageNo++ {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("ingest_run_cancelled: %w", err)
		}

		page, err := importer.client.AreaBasedList(ctx, options.AreaCode, options.ContentTypeID, pageNo, pageSize)
		if err != nil {
			return report, err
		}

		importer.stagePage(runStamp, pageNo, page.Raw)

		for _, item := range page.Items {
			report.Fetched++

			entry, err := transform(item)
			if err != nil {
				report.Skipped++
				report.Errors = append(report.Errors, err.Error())
				continue
			}

			if options.FetchOverviews {
				detail, err := importer.client.DetailCommon(ctx, entry.ContentID)
				if err != nil {
					// Missing prose is not worth losing the row over.
					importer.logger.Warn("ingest_overview_fetch_failed",
						slog.Int64("content_id", entry.ContentID),
						slog.Any("error", err),
					)
				} else {
					entry.Overview = detail.Overview
					entry.Homepage = detail.Homepage
				}
			}

			pending = append(pending, entry)

			if len(pending) >= batchSize {
				if err := importer.flush(ctx, pending, report); err != nil {
					return report, err
				}
				pending = pending[:0]
			}
		}

		if pageNo*pageSize >= page.TotalCount {
			break
		}
	}

	if err := importer.flush(ctx, pending, report); err != nil {
		return report, err
	}

	importer.logger.Info("ingest_run_finished",
		slog.Int("fetched", report.Fetched),
		slog.Int("imported", report.Imported),
		slog.Int("skipped", report.Skipped),
	)

	return report, nil
}

// flush persists a batch of transformed rows.
func (importer *Importer) flush(ctx context.Context, batch []*destination.Destination, report *Report) error {
	if len(batch) == 0 {
		return nil
	}

	written, err := importer.catalog.ImportBatch(ctx, batch)
	report.Imported += written
	if err != nil {
		return fmt.Errorf("ingest_flush_failed: %w", err)
	}

	return nil
}

// stagePage writes one raw upstream page to the staging directory.
// Staging failures are logged and ignored; they must not stop the import.
func (importer *Importer) stagePage(runStamp string, pageNo int, raw []byte) {
	if importer.stagingDir == "" || len(raw) == 0 {
		return
	}

	dir := filepath.Join(importer.stagingDir, runStamp)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		importer.logger.Warn("ingest_staging_mkdir_failed", slog.Any("error", err))
		return
	}

	path := filepath.Join(dir, fmt.Sprintf("area-page-%03d.json", pageNo))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		importer.logger.Warn("ingest_staging_write_failed",
			slog.String("path", path),
			slog.Any("error", err),
		)
	}
}

// transform converts one raw, all-strings upstream record into a catalogue
// entity. Records without a usable ID or title are rejected.
func transform(item AreaItem) (*destination.Destination, error) {
	contentID := int64(convert.ToInt(item.ContentID))
	if contentID <= 0 {
		return nil, fmt.Errorf("ingest_transform_bad_content_id: %q (title %q)", item.ContentID, item.Title)
	}

	if item.Title == "" {
		return nil, fmt.Errorf("ingest_transform_missing_title: content_id %d", contentID)
	}

	return &destination.Destination{
		ContentID:   contentID,
		Title:       item.Title,
		Address:     item.Addr1,
		Address2:    item.Addr2,
		Zipcode:     item.Zipcode,
		Tel:         item.Tel,
		CategoryID:  convert.ToInt(item.ContentTypeID),
		AreaCode:    convert.ToInt(item.AreaCode),
		FirstImage:  item.FirstImage,
		FirstImage2: item.FirstImage2,
		MapX:        convert.ToFloat64(item.MapX),
		MapY:        convert.ToFloat64(item.MapY),
	}, nil
}
