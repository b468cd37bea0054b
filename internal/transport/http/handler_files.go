package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/edu-planet/edu-service/internal/storage"

	"github.com/go-chi/chi/v5"
)

// POST /files — multipart-загрузка вложения, поле "file".
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	src, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "file field is required"})
		return
	}
	defer src.Close()

	stored, err := h.files.Save(header.Filename, src)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "file too large"})
			return
		}
		slog.Error("handler.UploadFile:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, UploadResponse{
		Path: stored.Path,
		Name: stored.Name,
		Size: stored.Size,
	})
}

// GET /files/{path}
func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "path")

	f, err := h.files.Open(rel)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrBadPath):
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid path"})
		case errors.Is(err, os.ErrNotExist):
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "file not found"})
		default:
			slog.Error("handler.DownloadFile:", slog.Any("err", err))
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+rel+"\"")
	if _, err := io.Copy(w, f); err != nil {
		slog.Error("handler.DownloadFile:", slog.Any("err", err))
	}
}

// DELETE /files/{path}
func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "path")

	if err := h.files.Delete(rel); err != nil {
		switch {
		case errors.Is(err, storage.ErrBadPath):
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid path"})
		case errors.Is(err, os.ErrNotExist):
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "file not found"})
		default:
			slog.Error("handler.DeleteFile:", slog.Any("err", err))
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
