// Package notify carries the blocking notices an export shows its user.
package notify

import (
	"context"
	"sync"
)

// Kind identifies a notice.
type Kind string

const (
	// KindLoadFailure reports stored data that could not be read or parsed.
	KindLoadFailure Kind = "load_failure"
	// KindNoData reports an empty collection. It is informational.
	KindNoData Kind = "no_data"
	// KindDependencyFailure reports that the spreadsheet encoder never became available.
	KindDependencyFailure Kind = "dependency_failure"
	// KindExportFailure reports a failure to encode or save the file.
	KindExportFailure Kind = "export_failure"
)

var messages = map[Kind]string{
	KindLoadFailure:       "❌ Failed to load collected data.",
	KindNoData:            "No data found. Did you run the collector on any pages?",
	KindDependencyFailure: "❌ Failed to load the spreadsheet encoder.",
	KindExportFailure:     "❌ Failed to write the backup file.",
}

// Notice is a message for the user.
type Notice struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// For returns the notice for kind.
func For(kind Kind) Notice {
	return Notice{Kind: kind, Message: messages[kind]}
}

// IsError reports whether the notice describes a failure.
func (n Notice) IsError() bool {
	return n.Kind != KindNoData
}

// Notifier shows notices to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// Recorder keeps notices in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

// Notify implements Notifier.
func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of the recorded notices.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Last returns the most recent notice.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}
