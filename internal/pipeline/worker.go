package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docoutline/internal/editor"
	"github.com/dgallion1/docoutline/internal/importer"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/store"
)

// Worker processes a single import job.
type Worker struct {
	editor *editor.Editor
	opts   importer.Options
	log    *slog.Logger
}

func NewWorker(ed *editor.Editor, opts importer.Options, log *slog.Logger) *Worker {
	return &Worker{editor: ed, opts: opts, log: log}
}

// Process runs the import for a job: convert the upload to outline text,
// check it parses, then save it under the job's document key.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc", job.DocKey, "filename", job.Filename)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	imp, err := importer.ForFile(job.Filename, w.opts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	res, err := imp.Import(bytes.NewReader(job.FileData()), job.Filename)
	job.releaseFileData()
	if err != nil {
		log.Error("import failed", "error", err)
		job.AddError(fmt.Sprintf("import: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if res.Text == "" {
		log.Warn("no content imported")
		job.AddError("no extractable content")
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	tree, err := outline.Parse(res.Text)
	if err != nil {
		log.Error("outline build failed", "error", err)
		job.AddError(fmt.Sprintf("outline: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	hash := ContentHashHex([]byte(res.Text))
	job.SetParsed(res.Title, hash, len(res.Text), len(tree.IDs()))
	log.Info("document imported", "title", res.Title, "sections", len(tree.IDs()))

	// Phase 2: Store
	job.SetStatus(StatusStoring, "storing")
	if existing, err := w.editor.Get(ctx, job.DocKey); err == nil {
		if ContentHashHex([]byte(existing.Content)) == hash {
			log.Info("document unchanged, skipping")
			job.SetVersion(existing.Version)
			job.SetStatus(StatusUnchanged, "done")
			return
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Warn("existing document check failed, proceeding", "error", err)
	}

	expected := int64(0)
	if job.Overwrite {
		expected = store.AnyVersion
	}

	var doc store.Document
	for attempt := range MaxRetries {
		doc, err = w.editor.Put(ctx, job.DocKey, res.Text, expected)
		if err == nil || !IsRetryable(err) || attempt == MaxRetries-1 {
			break
		}
		log.Warn("retryable store error", "attempt", attempt, "error", err)
		select {
		case <-time.After(Backoff(attempt)):
			continue
		case <-ctx.Done():
			err = ctx.Err()
		}
		break
	}
	if err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			err = fmt.Errorf("document %q already exists: %w", job.DocKey, err)
		}
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	job.SetVersion(doc.Version)
	job.SetStatus(StatusCompleted, "done")
}
