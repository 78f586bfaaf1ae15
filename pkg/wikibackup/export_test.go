package wikibackup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/delivery"
	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/encoder"
	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/models"
	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/notify"
	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/parser"
	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/storage"
)

const scenario = `[{"pageId":1,"pageName":"Dragon longsword","url":"/w/DLS","tableNo":2,"highlightString":"GE price"}]`

var fixedNow = time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)

// captureDeliverer keeps delivered downloads in memory.
type captureDeliverer struct {
	downloads []delivery.Download
	err       error
}

func (c *captureDeliverer) Deliver(_ context.Context, d delivery.Download) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	c.downloads = append(c.downloads, d)
	return "memory://" + d.Filename, nil
}

// failingEncoder always fails.
type failingEncoder struct{ err error }

func (f failingEncoder) Encode(context.Context, string, []models.ExportRow) ([]byte, error) {
	return nil, f.err
}

// errStore fails every read.
type errStore struct{ err error }

func (s errStore) Get(context.Context, string) (string, bool, error) {
	return "", false, s.err
}

type fixture struct {
	store     *storage.Memory
	deliverer *captureDeliverer
	notices   *notify.Recorder
}

func newFixture(items map[string]string) *fixture {
	return &fixture{
		store:     storage.NewMemory(items),
		deliverer: &captureDeliverer{},
		notices:   &notify.Recorder{},
	}
}

func (f *fixture) exporter(provider encoder.Provider) *Exporter {
	return f.exporterWith(f.store, provider)
}

func (f *fixture) exporterWith(store storage.Store, provider encoder.Provider) *Exporter {
	opts := DefaultOptions()
	opts.Now = func() time.Time { return fixedNow }
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, provider, f.deliverer, f.notices, opts)
}

func workbookProvider() encoder.Provider {
	return encoder.Static{Enc: encoder.Workbook{}}
}

func TestExportScenario(t *testing.T) {
	fx := newFixture(map[string]string{StorageKey: scenario})

	res, err := fx.exporter(workbookProvider()).Export(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Empty)
	assert.Equal(t, 1, res.Records)
	assert.Equal(t, "OSRC wiki tables backup 2024-03-05.xlsx", res.Filename)
	assert.Equal(t, "memory://OSRC wiki tables backup 2024-03-05.xlsx", res.Location)
	assert.NotEmpty(t, res.RunID)
	assert.Empty(t, fx.notices.Notices(), "success shows no notice")

	require.Len(t, fx.deliverer.downloads, 1)
	dl := fx.deliverer.downloads[0]
	assert.Equal(t, delivery.ContentType, dl.ContentType)
	assert.Equal(t, res.Size, len(dl.Data))

	backup, err := parser.ReadBackupBytes(dl.Data, dl.Filename)
	require.NoError(t, err)
	require.Len(t, backup.Sheets, 1)
	assert.Equal(t, []models.ExportRow{
		{"Page ID", "Page Name", "URL", "Table No", "Highlight String"},
		{int64(1), "Dragon longsword", "/w/DLS", int64(2), "GE price"},
	}, backup.Sheets[SheetName].Rows)
}

func TestExportRowCount(t *testing.T) {
	fx := newFixture(map[string]string{StorageKey: `[
		{"pageId":1,"pageName":"A","url":"/a","tableNo":1,"highlightString":"x"},
		{"pageId":2,"pageName":"B","url":"/b","tableNo":3,"highlightString":"y"},
		{"pageId":1,"pageName":"A","url":"/a","tableNo":1,"highlightString":"x"}
	]`})

	res, err := fx.exporter(workbookProvider()).Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Records)

	backup, err := parser.ReadBackupBytes(fx.deliverer.downloads[0].Data, "b.xlsx")
	require.NoError(t, err)
	rows := backup.Sheets[SheetName].Rows
	require.Len(t, rows, 4)
	assert.Equal(t, models.HeaderRow(), rows[0])
	assert.Equal(t, "B", rows[2][1])
	assert.Equal(t, rows[1], rows[3])
}

func TestExportKeepsStringValues(t *testing.T) {
	fx := newFixture(map[string]string{StorageKey: `[
		{"pageId":"007","pageName":"TRUE","url":"1e3","tableNo":"2","highlightString":"GE price"},
		{"pageId":7,"pageName":true,"url":"/w/7","tableNo":2.5}
	]`})

	_, err := fx.exporter(workbookProvider()).Export(context.Background())
	require.NoError(t, err)

	backup, err := parser.ReadBackupBytes(fx.deliverer.downloads[0].Data, "b.xlsx")
	require.NoError(t, err)
	rows := backup.Sheets[SheetName].Rows
	require.Len(t, rows, 3)
	assert.Equal(t, models.ExportRow{"007", "TRUE", "1e3", "2", "GE price"}, rows[1])
	assert.Equal(t, models.ExportRow{int64(7), true, "/w/7", 2.5}, rows[2])
}

func TestExportEmptyCollection(t *testing.T) {
	tests := []struct {
		name  string
		items map[string]string
	}{
		{"key absent", nil},
		{"empty array", map[string]string{StorageKey: "[]"}},
		{"empty string", map[string]string{StorageKey: ""}},
		{"null", map[string]string{StorageKey: "null"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(tt.items)

			res, err := fx.exporter(workbookProvider()).Export(context.Background())
			require.NoError(t, err)
			assert.True(t, res.Empty)
			assert.Empty(t, fx.deliverer.downloads)
			assert.Equal(t, []notify.Notice{notify.For(notify.KindNoData)}, fx.notices.Notices())
		})
	}
}

func TestExportMalformedStorage(t *testing.T) {
	for _, raw := range []string{"not json", "{}", "[1,2]", `[{"pageId":1}`, `[null]`, `[{"pageId":1},null]`} {
		fx := newFixture(map[string]string{StorageKey: raw})

		res, err := fx.exporter(workbookProvider()).Export(context.Background())
		assert.Nil(t, res)
		assert.ErrorIs(t, err, ErrStorageParse, raw)

		var exportErr *ExportError
		require.ErrorAs(t, err, &exportErr)
		assert.Equal(t, StageLoad, exportErr.Stage)

		assert.Empty(t, fx.deliverer.downloads)
		assert.Equal(t, []notify.Notice{notify.For(notify.KindLoadFailure)}, fx.notices.Notices())
	}
}

func TestExportStorageUnavailable(t *testing.T) {
	fx := newFixture(nil)
	boom := errors.New("disk on fire")

	_, err := fx.exporterWith(errStore{err: boom}, workbookProvider()).Export(context.Background())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []notify.Notice{notify.For(notify.KindLoadFailure)}, fx.notices.Notices())
}

func TestExportDependencyTimeout(t *testing.T) {
	fx := newFixture(map[string]string{StorageKey: scenario})
	provider := encoder.NewLazy(func(ctx context.Context) (encoder.Encoder, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, 20*time.Millisecond)

	_, err := fx.exporter(provider).Export(context.Background())
	assert.ErrorIs(t, err, ErrDependencyLoad)
	assert.ErrorIs(t, err, encoder.ErrUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, StageEncoder, exportErr.Stage)

	assert.Empty(t, fx.deliverer.downloads)
	assert.Equal(t, []notify.Notice{notify.For(notify.KindDependencyFailure)}, fx.notices.Notices())
}

func TestExportEncodeFailure(t *testing.T) {
	fx := newFixture(map[string]string{StorageKey: scenario})
	boom := errors.New("boom")

	_, err := fx.exporter(encoder.Static{Enc: failingEncoder{err: boom}}).Export(context.Background())
	assert.ErrorIs(t, err, ErrEncode)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, fx.deliverer.downloads)
	assert.Equal(t, []notify.Notice{notify.For(notify.KindExportFailure)}, fx.notices.Notices())
}

func TestExportDeliverFailure(t *testing.T) {
	fx := newFixture(map[string]string{StorageKey: scenario})
	fx.deliverer.err = errors.New("disk full")

	_, err := fx.exporter(workbookProvider()).Export(context.Background())
	assert.ErrorIs(t, err, ErrDeliver)

	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, StageDeliver, exportErr.Stage)
	assert.Equal(t, []notify.Notice{notify.For(notify.KindExportFailure)}, fx.notices.Notices())
}

func TestExportIdempotent(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewMemory(map[string]string{StorageKey: scenario})
	provider := encoder.NewLazy(encoder.LoadWorkbook, time.Second)
	opts := DefaultOptions()
	opts.Now = func() time.Time { return fixedNow }
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	exp := New(store, provider, delivery.NewDirectory(dir), &notify.Recorder{}, opts)

	first, err := exp.Export(context.Background())
	require.NoError(t, err)
	firstBackup, err := parser.ReadBackup(first.Location)
	require.NoError(t, err)

	second, err := exp.Export(context.Background())
	require.NoError(t, err)
	secondBackup, err := parser.ReadBackup(second.Location)
	require.NoError(t, err)

	assert.Equal(t, first.Filename, second.Filename)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, firstBackup.Sheets, secondBackup.Sheets)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(first.Location), entries[0].Name())
}

func TestExportCustomOptions(t *testing.T) {
	fx := newFixture(map[string]string{"otherKey": scenario})
	opts := Options{
		Key:       "otherKey",
		SheetName: "Backup",
		Now:       func() time.Time { return fixedNow },
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	_, err := New(fx.store, workbookProvider(), fx.deliverer, fx.notices, opts).Export(context.Background())
	require.NoError(t, err)

	backup, err := parser.ReadBackupBytes(fx.deliverer.downloads[0].Data, "b.xlsx")
	require.NoError(t, err)
	assert.Contains(t, backup.Sheets, "Backup")
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, StorageKey, o.Key)
	assert.Equal(t, SheetName, o.SheetName)
	assert.NotNil(t, o.Now)
	assert.NotNil(t, o.Logger)
}

func TestExportErrorMessage(t *testing.T) {
	err := NewExportError(StageLoad, ErrStorageParse, errors.New("bad json"))
	assert.Equal(t, "export failed at load: stored collection is malformed: bad json", err.Error())
}
