package controllers

import (
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"game_inventory/internal/storage/uploads"
)

type UploadController struct {
	uploads uploads.IUploads
	log     *slog.Logger
}

func NewUploadController(u uploads.IUploads, log *slog.Logger) *UploadController {
	return &UploadController{
		uploads: u,
		log:     log,
	}
}

// Upload stores a multipart picture under a generated filename and returns
// it; the caller attaches the filename to a game, console or peripheral.
func (c *UploadController) Upload(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.uploads.Upload"

	file, header, err := r.FormFile("picture")
	if err != nil {
		c.log.Error(
			"picture not provided",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, "picture not provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	pictureData, err := io.ReadAll(file)
	if err != nil {
		c.log.Error("failed to read picture", slog.String("error", err.Error()))
		http.Error(w, "failed to read picture", http.StatusInternalServerError)
		return
	}

	filename := uuid.New().String() + filepath.Ext(header.Filename)
	if err := c.uploads.SavePicture(pictureData, filename); err != nil {
		c.log.Error("failed to save picture", slog.String("error", err.Error()))
		http.Error(w, "failed to save picture", http.StatusInternalServerError)
		return
	}

	if err := respondJSON(w, http.StatusCreated, map[string]string{"filename": filename}); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}
