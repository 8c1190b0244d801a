package controllers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"game_inventory/internal/services"
)

type ExportServicer interface {
	ExportWorkbook() (*excelize.File, error)
	Import(r io.Reader) (*services.ImportSummary, error)
}

type ExportController struct {
	service ExportServicer
	log     *slog.Logger
}

func NewExportController(s ExportServicer, log *slog.Logger) *ExportController {
	return &ExportController{
		service: s,
		log:     log,
	}
}

// Export streams the whole inventory as an xlsx attachment.
func (c *ExportController) Export(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.export.Export"

	f, err := c.service.ExportWorkbook()
	if err != nil {
		c.log.Error(
			"failed to build export workbook",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, "failed to export", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("inventory-%s.xlsx", time.Now().Format(dateLayout))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := f.WriteTo(w); err != nil {
		c.log.Error(
			"failed to write export workbook",
			slog.String("operation", op),
			slog.String("error", err.Error()))
	}
}

// Import accepts a multipart workbook upload and creates every record it
// contains, responding with per-entity counts.
func (c *ExportController) Import(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.export.Import"

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		c.log.Error(
			ErrBadRequest.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		c.log.Error(
			"missing workbook file",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	summary, err := c.service.Import(file)
	if err != nil {
		c.log.Error(
			"failed to import workbook",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, "failed to import", http.StatusInternalServerError)
		return
	}

	if err := respondJSON(w, http.StatusOK, summary); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}
