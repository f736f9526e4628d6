package catalog

import (
	"bytes"
	"context"
	"io"
	"iter"
	"net/http"
	"time"

	"github.com/mytheresa/product-catalog/models"
	"go.uber.org/zap"
)

// chunkedFlushRows is how many rows /listar-chunked writes between flushes.
const chunkedFlushRows = 1000

// listMode selects the templates and the delivery of a listing. A zero
// flushEvery renders the whole page before sending anything.
type listMode struct {
	template   string
	flushEvery int
	delay      time.Duration
}

func (h *CatalogHandler) renderList(w http.ResponseWriter, r *http.Request, products iter.Seq2[models.Product, error], mode listMode) {
	data := page{
		Title:   "Listado de productos",
		Success: r.URL.Query().Get("success"),
		Error:   r.URL.Query().Get("error"),
	}

	if mode.flushEvery == 0 {
		var buf bytes.Buffer
		if err := h.writeList(r.Context(), &buf, nil, products, mode, data); err != nil {
			h.logger.Error("Failed to list products", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		buf.WriteTo(w)
		return
	}

	// Headers are gone after the first flush, so failures from here on can
	// only be logged.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	flusher, _ := w.(http.Flusher)
	if err := h.writeList(r.Context(), w, flusher, products, mode, data); err != nil {
		h.logger.Warn("Streamed listing aborted", zap.Error(err))
	}
}

func (h *CatalogHandler) writeList(ctx context.Context, w io.Writer, flusher http.Flusher, products iter.Seq2[models.Product, error], mode listMode, data page) error {
	if err := h.tmpl.ExecuteTemplate(w, mode.template+"_open", data); err != nil {
		return err
	}

	n := 0
	for p, err := range products {
		if err != nil {
			return err
		}
		if mode.delay > 0 {
			if err := pause(ctx, mode.delay); err != nil {
				return err
			}
		}
		if err := h.tmpl.ExecuteTemplate(w, mode.template+"_row", p); err != nil {
			return err
		}
		n++
		if flusher != nil && n%mode.flushEvery == 0 {
			flusher.Flush()
		}
	}

	if err := h.tmpl.ExecuteTemplate(w, mode.template+"_close", data); err != nil {
		return err
	}
	if flusher != nil {
		flusher.Flush()
	}
	return nil
}

// pause waits for d unless ctx ends first.
func pause(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
