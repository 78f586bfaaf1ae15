// Package wikibackup exports saved wiki table references from browser local
// storage into an xlsx backup.
package wikibackup

import (
	"log/slog"
	"time"
)

const (
	// StorageKey is the local storage key the collector writes to.
	StorageKey = "osrsTableBackup"
	// SheetName is the name of the single backup sheet.
	SheetName = "All Pages"
)

// Options configures an Exporter.
type Options struct {
	// Key is the storage key to read. Defaults to StorageKey.
	Key string
	// SheetName names the backup sheet. Defaults to SheetName.
	SheetName string
	// Now returns the current time, used for the filename date.
	// If nil, time.Now is used.
	Now func() time.Time
	// Logger receives progress logs. If nil, slog.Default is used.
	Logger *slog.Logger
}

// DefaultOptions returns default export options.
func DefaultOptions() Options {
	return Options{
		Key:       StorageKey,
		SheetName: SheetName,
		Now:       time.Now,
	}
}

func (o Options) withDefaults() Options {
	if o.Key == "" {
		o.Key = StorageKey
	}
	if o.SheetName == "" {
		o.SheetName = SheetName
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
