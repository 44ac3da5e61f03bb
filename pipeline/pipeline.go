// Package pipeline implements the single-pass image enrichment pipeline:
// fetch from the file store, archive to the object store, label, describe,
// and append a summary row to the tabular store. Execution is strictly
// sequential and fail-fast; a stage failure aborts the run with no
// compensation for stages that already completed.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound reports that the named file does not exist in the file
// store. It is distinguishable from service failures via errors.Is.
var ErrNotFound = errors.New("file not found")

// State is the orchestrator's position in the fixed stage sequence.
type State string

const (
	StateFetching    State = "fetching"
	StateArchiving   State = "archiving"
	StateClassifying State = "classifying"
	StateDescribing  State = "describing"
	StateRecording   State = "recording"
	StateDone        State = "done"
	StateAborted     State = "aborted"
)

// Request carries the inputs for one pipeline invocation.
type Request struct {
	FileName  string // name of the source file in the file store
	Bucket    string // archival bucket
	Folder    string // object name prefix inside the bucket, may be ""
	SheetID   string // tabular store identifier
	TopLabels int    // label count requested from the label service
}

// Report collects the outputs of a completed invocation.
type Report struct {
	File        *SourceFile
	Receipt     *ArchiveReceipt
	Labels      string
	Description string
	CellsAdded  int64
	SheetID     string
}

// Pipeline sequences the five stages over the injected collaborators.
type Pipeline struct {
	Files     FileStore
	Objects   ObjectStore
	Labels    LabelService
	Describer Describer
	Rows      RowAppender
	Geo       *GeoResolver

	Logger *slog.Logger
	// Progress receives human-readable stage notices when non-nil.
	Progress io.Writer
	// PaceDelay is slept after each stage notice. Zero skips the delay.
	PaceDelay time.Duration
}

// Run executes the pipeline for one request. Any stage failure, including
// a missing source file, aborts the remaining stages and returns an error;
// the archived object is not deleted on a later-stage failure.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Report, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("run_id", uuid.NewString(), "file", req.FileName)

	state := StateFetching
	abort := func(err error) (*Report, error) {
		logger.Error("Pipeline aborted", "state", string(state), "error", err)
		state = StateAborted
		return nil, err
	}
	advance := func(to State) {
		logger.Info("Stage completed", "state", string(state), "next", string(to))
		state = to
	}

	file, err := p.fetch(ctx, req.FileName)
	if err != nil {
		return abort(err)
	}
	p.notice("Downloaded '%s' (%s, %s, size: %d)", file.Name, file.MIMEType, file.ModifiedTime, len(file.Data))
	advance(StateArchiving)

	objectName := path.Join(req.Folder, file.Name)
	rcpt, err := p.Objects.Insert(ctx, req.Bucket, objectName, file.Data, file.MIMEType)
	if err != nil {
		return abort(fmt.Errorf("archive %q: %w", objectName, err))
	}
	p.notice("Uploaded '%s' to bucket '%s'", rcpt.Name, rcpt.Bucket)
	advance(StateClassifying)

	labels, err := p.classify(ctx, file.Data, req.TopLabels)
	if err != nil {
		return abort(err)
	}
	p.notice("Top %d labels: %s", req.TopLabels, labels)
	advance(StateDescribing)

	desc, err := p.describe(ctx, file.Data)
	if err != nil {
		return abort(err)
	}
	p.notice("Analysis: %s", desc)
	advance(StateRecording)

	if file.Geo.Present {
		p.notice("Found location, map URL: %s", file.Geo.MapURL)
	}
	row := BuildRow(req.Folder, file, rcpt, labels, desc)
	cells, err := p.record(ctx, req.SheetID, row)
	if err != nil {
		return abort(err)
	}
	p.notice("Added %d cells to sheet", cells)
	advance(StateDone)

	return &Report{
		File:        file,
		Receipt:     rcpt,
		Labels:      labels,
		Description: desc,
		CellsAdded:  cells,
		SheetID:     req.SheetID,
	}, nil
}

// fetch locates the named file, downloads its content, and resolves its
// geolocation. Duplicate names keep the store's own ordering: the first
// match wins.
func (p *Pipeline) fetch(ctx context.Context, name string) (*SourceFile, error) {
	matches, err := p.Files.Find(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find %q: %w", name, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	target := matches[0]

	data, err := p.Files.Download(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("download %q: %w", target.Name, err)
	}

	geo, err := p.Geo.Resolve(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("geolocate %q: %w", target.Name, err)
	}

	return &SourceFile{
		Name:         target.Name,
		MIMEType:     target.MIMEType,
		ModifiedTime: target.ModifiedTime,
		Data:         data,
		Geo:          geo,
	}, nil
}

// classify requests the top labels and renders them as one display string.
// An empty annotation set is a failure: the row has no label cell to omit.
func (p *Pipeline) classify(ctx context.Context, data []byte, top int) (string, error) {
	labels, err := p.Labels.Annotate(ctx, data, top)
	if err != nil {
		return "", fmt.Errorf("annotate: %w", err)
	}
	if len(labels) == 0 {
		return "", errors.New("annotate: no labels returned")
	}
	return FormatLabels(labels), nil
}

func (p *Pipeline) describe(ctx context.Context, data []byte) (string, error) {
	desc, err := p.Describer.Describe(ctx, data)
	if err != nil {
		return "", fmt.Errorf("describe: %w", err)
	}
	if desc == "" {
		return "", errors.New("describe: empty response")
	}
	return desc, nil
}

func (p *Pipeline) record(ctx context.Context, sheetID string, row []any) (int64, error) {
	cells, err := p.Rows.AppendRow(ctx, sheetID, row)
	if err != nil {
		return 0, fmt.Errorf("append row: %w", err)
	}
	if cells == 0 {
		return 0, errors.New("append row: no cells written")
	}
	return cells, nil
}

// notice writes a verbose progress line and applies the pacing delay.
// A nil Progress writer disables both.
func (p *Pipeline) notice(format string, args ...any) {
	if p.Progress == nil {
		return
	}
	fmt.Fprintf(p.Progress, "\n* "+format+"\n", args...)
	if p.PaceDelay > 0 {
		time.Sleep(p.PaceDelay)
	}
}
