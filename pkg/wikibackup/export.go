package wikibackup

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/delivery"
	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/encoder"
	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/models"
	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/notify"
	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/storage"
)

// Result describes a finished export run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string
	// Empty is true when no records were found and no file was produced.
	Empty bool
	// Records is the number of exported records.
	Records int
	// Filename is the name of the produced file.
	Filename string
	// Location is where the deliverer put the file.
	Location string
	// Size is the file size in bytes.
	Size int
}

// Exporter exports the stored collection into a spreadsheet file.
type Exporter struct {
	store     storage.Store
	provider  encoder.Provider
	deliverer delivery.Deliverer
	notifier  notify.Notifier
	opts      Options
}

// New creates an Exporter.
func New(store storage.Store, provider encoder.Provider, deliverer delivery.Deliverer, notifier notify.Notifier, opts Options) *Exporter {
	return &Exporter{
		store:     store,
		provider:  provider,
		deliverer: deliverer,
		notifier:  notifier,
		opts:      opts.withDefaults(),
	}
}

// Export runs one export. An empty collection is not an error: the result
// has Empty set and nothing is delivered. Every failure notifies the user
// and returns an *ExportError; nothing is delivered unless encoding succeeded.
func (e *Exporter) Export(ctx context.Context) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	log := e.opts.Logger.With(slog.String("run_id", res.RunID))

	enc, err := e.provider.Encoder(ctx)
	if err != nil {
		log.Error("Spreadsheet encoder unavailable", slog.String("error", err.Error()))
		e.notifier.Notify(ctx, notify.For(notify.KindDependencyFailure))
		return nil, NewExportError(StageEncoder, ErrDependencyLoad, err)
	}

	collection, err := e.load(ctx)
	if err != nil {
		log.Error("Failed to load collected data",
			slog.String("key", e.opts.Key),
			slog.String("error", err.Error()))
		e.notifier.Notify(ctx, notify.For(notify.KindLoadFailure))
		return nil, err
	}

	if len(collection) == 0 {
		log.Info("No collected data found", slog.String("key", e.opts.Key))
		e.notifier.Notify(ctx, notify.For(notify.KindNoData))
		res.Empty = true
		return res, nil
	}

	rows := Project(collection)
	log.Info("Encoding backup",
		slog.Int("record_count", len(collection)),
		slog.String("sheet", e.opts.SheetName))

	data, err := enc.Encode(ctx, e.opts.SheetName, rows)
	if err != nil {
		log.Error("Failed to encode workbook", slog.String("error", err.Error()))
		e.notifier.Notify(ctx, notify.For(notify.KindExportFailure))
		return nil, NewExportError(StageEncode, ErrEncode, err)
	}

	filename := Filename(e.opts.Now())
	location, err := e.deliverer.Deliver(ctx, delivery.Download{
		Filename:    filename,
		ContentType: delivery.ContentType,
		Data:        data,
	})
	if err != nil {
		log.Error("Failed to deliver backup",
			slog.String("filename", filename),
			slog.String("error", err.Error()))
		e.notifier.Notify(ctx, notify.For(notify.KindExportFailure))
		return nil, NewExportError(StageDeliver, ErrDeliver, err)
	}

	res.Records = len(collection)
	res.Filename = filename
	res.Location = location
	res.Size = len(data)

	log.Info("Backup exported",
		slog.String("filename", filename),
		slog.String("location", location),
		slog.Int("record_count", res.Records),
		slog.Int("size_bytes", res.Size))

	return res, nil
}

// load reads and decodes the stored collection. An absent key is empty.
func (e *Exporter) load(ctx context.Context) (models.Collection, error) {
	raw, ok, err := e.store.Get(ctx, e.opts.Key)
	if err != nil {
		return nil, NewExportError(StageLoad, ErrStorageUnavailable, err)
	}
	if !ok {
		return nil, nil
	}

	collection, err := storage.DecodeCollection(raw)
	if err != nil {
		if errors.Is(err, storage.ErrMalformed) {
			return nil, NewExportError(StageLoad, ErrStorageParse, err)
		}
		return nil, NewExportError(StageLoad, ErrStorageUnavailable, err)
	}
	return collection, nil
}
