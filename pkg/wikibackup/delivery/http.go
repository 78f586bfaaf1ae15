package delivery

import (
	"context"
	"mime"
	"net/http"
	"strconv"
)

// HTTP delivers a download as an attachment response.
type HTTP struct {
	w http.ResponseWriter
}

// NewHTTP creates an HTTP deliverer writing to w.
func NewHTTP(w http.ResponseWriter) *HTTP {
	return &HTTP{w: w}
}

// Deliver implements Deliverer. Headers are only written once the filename
// has been validated; after that the response is committed.
func (h *HTTP) Deliver(_ context.Context, dl Download) (string, error) {
	if err := validateFilename(dl.Filename); err != nil {
		return "", err
	}

	header := h.w.Header()
	header.Set("Content-Type", contentType(dl))
	header.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": dl.Filename}))
	header.Set("Content-Length", strconv.Itoa(len(dl.Data)))
	header.Set("Cache-Control", "no-store")
	h.w.WriteHeader(http.StatusOK)

	if _, err := h.w.Write(dl.Data); err != nil {
		return "", err
	}
	return dl.Filename, nil
}
