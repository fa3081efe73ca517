// Package importer orchestrates one import invocation: read, detect,
// route, parse, and either preview (dry run) or commit inside a single
// store transaction.
package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/artel-io/naryad/internal/config"
	"github.com/artel-io/naryad/internal/detect"
	"github.com/artel-io/naryad/internal/fields"
	"github.com/artel-io/naryad/internal/model"
	"github.com/artel-io/naryad/internal/orders"
	"github.com/artel-io/naryad/internal/reader"
	"github.com/artel-io/naryad/internal/storage"
)

// ProgressFunc receives one-way progress notifications at per-table
// granularity. It is fire-and-forget: the pipeline never blocks on it and
// tolerates it panicking.
type ProgressFunc func(step, total int, note string)

// Options controls one import invocation.
type Options struct {
	Progress     ProgressFunc
	Preset       model.Preset
	DryRun       bool
	BackupBefore bool
}

// Importer runs the import pipeline against one canonical store.
type Importer struct {
	store *storage.Store
	cfg   config.Config
}

// New returns an importer bound to the given store and configuration.
func New(store *storage.Store, cfg config.Config) *Importer {
	return &Importer{store: store, cfg: cfg}
}

// parsed is everything extracted from one input file, ready to commit.
type parsed struct {
	workers   []model.Worker
	jobTypes  []model.JobType
	products  []model.Product
	contracts []model.Contract
	groups    []model.OrderGroup
}

// Run executes one import. Parsing always completes before the first
// store write; a dry run performs no store I/O at all and only renders
// the preview report.
func (im *Importer) Run(ctx context.Context, path string, opts Options) (*model.ImportResult, error) {
	if opts.Preset == "" {
		opts.Preset = model.PresetAuto
	}

	res := model.NewImportResult(opts.DryRun)

	readRes, err := reader.ReadAny(path)
	if err != nil {
		return nil, err
	}
	if readRes.Unsupported != "" {
		res.Warn("file could not be decoded: " + readRes.Unsupported)
	}

	plan, detections := detect.Route(readRes.Tables, opts.Preset)
	res.Skipped = len(readRes.Tables) - len(plan)

	p, err := im.parse(path, readRes.Tables, plan, opts, res)
	if err != nil {
		return nil, err
	}

	if opts.DryRun {
		if err := im.renderPreview(res, p, detections); err != nil {
			return nil, err
		}
		return res, nil
	}

	if opts.BackupBefore {
		backupPath, err := storage.Backup(im.store.Path(), im.cfg.BackupDir)
		if err != nil {
			return nil, fmt.Errorf("backup before import failed: %w", err)
		}
		res.BackupPath = backupPath
		slog.Info("store backed up", "path", backupPath)
	}

	if err := im.commit(ctx, p, res); err != nil {
		return nil, err
	}
	return res, nil
}

// parse runs the routed field parsers and the order reconstructor. In
// real mode a missing-columns condition aborts the import: the table was
// misrouted and committing the rest would be misleading. A dry run
// reports it as a warning instead, so the preview always completes.
func (im *Importer) parse(path string, tables []model.RawTable, plan []detect.Routed, opts Options, res *model.ImportResult) (*parsed, error) {
	p := &parsed{}
	markers := orders.SheetMarkers()
	if reader.IsDelimited(path) {
		markers = orders.CSVMarkers()
	}

	for i, routed := range plan {
		t := tables[routed.Index]
		im.progress(opts, i+1, len(plan), fmt.Sprintf("%s: %s", t.Name, routed.Kind))

		var err error
		switch routed.Kind {
		case model.KindWorkers:
			var ws []model.Worker
			if ws, err = fields.ParseWorkers(t); err == nil {
				p.workers = append(p.workers, ws...)
			}
		case model.KindJobTypes:
			var js []model.JobType
			if js, err = fields.ParseJobTypes(t); err == nil {
				p.jobTypes = append(p.jobTypes, js...)
			}
		case model.KindProducts:
			var ps []model.Product
			if ps, err = fields.ParseProducts(t); err == nil {
				p.products = append(p.products, ps...)
			}
		case model.KindContracts:
			var cs []model.Contract
			if cs, err = fields.ParseContracts(t); err == nil {
				p.contracts = append(p.contracts, cs...)
			}
		case model.KindOrders:
			groups := orders.FromTable(t, markers)
			p.groups = append(p.groups, groups...)
		}

		if err != nil {
			if !opts.DryRun {
				return nil, err
			}
			res.Warn(err.Error())
		}
	}
	return p, nil
}

// progress fires the callback without letting it disturb the pipeline.
func (im *Importer) progress(opts Options, step, total int, note string) {
	if opts.Progress == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("progress callback panicked", "panic", r)
		}
	}()
	opts.Progress(step, total, note)
}
