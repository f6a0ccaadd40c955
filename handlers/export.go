package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"planexport/services"
)

// HandleExport renders the POSTed document model in the format named by the
// path and streams the file back as an attachment.
func HandleExport(exporter *services.Exporter, maxBodyBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := r.PathValue("format")

		body := r.Body
		if maxBodyBytes > 0 {
			body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		data, err := services.ReadExportData(body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		q := r.URL.Query()
		withStats, _ := strconv.ParseBool(q.Get("stats"))
		res, err := exporter.Export(r.Context(), data, format, services.ExportRequest{
			Language:          q.Get("lang"),
			Template:          q.Get("template"),
			IncludeStatistics: withStats,
		})
		if err != nil {
			log.Printf("export: %s for %q failed: %v", format, data.Title, err)
			http.Error(w, err.Error(), exportStatus(err))
			return
		}

		h := w.Header()
		h.Set("Content-Type", res.ContentType)
		h.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, res.FileName))
		h.Set("Content-Length", strconv.FormatInt(res.FileSizeBytes, 10))
		h.Set("X-Export-Id", res.ID.String())
		h.Set("Content-Language", res.Language)
		if res.Statistics != nil {
			stats, err := json.Marshal(res.Statistics)
			if err != nil {
				log.Printf("export: failed to marshal statistics: %v", err)
			} else {
				h.Set("X-Export-Statistics", string(stats))
			}
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(res.FileData); err != nil {
			log.Printf("export: failed to write %s: %v", res.FileName, err)
		}
	}
}

// HandleFormats lists the formats the exporter can produce.
func HandleFormats(exporter *services.Exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string][]string{
			"formats": exporter.Registry().Formats(),
		}); err != nil {
			log.Printf("formats: failed to encode response: %v", err)
		}
	}
}

func exportStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrUnknownFormat):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		// Client went away; the status is never read.
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
