package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/underneath-media/portfolio-api/internal/auth"
	"github.com/underneath-media/portfolio-api/internal/storage"
	"github.com/underneath-media/portfolio-api/models"
	"gorm.io/gorm"
)

// maxUploadSize is the per-photo byte ceiling.
const maxUploadSize = 10 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

func photoJSON(p *models.Photo, username, url string) map[string]any {
	return map[string]any{
		"id":           p.ID,
		"filename":     p.Filename,
		"originalName": p.OriginalName,
		"category":     p.Category,
		"title":        p.Title,
		"description":  p.Description,
		"url":          url,
		"username":     username,
		"userId":       p.UserID,
		"isPrivate":    p.IsPrivate,
		"createdAt":    p.CreatedAt,
	}
}

func UploadPhotoHandler(w http.ResponseWriter, r *http.Request, db *gorm.DB, store storage.Storage) {
	sess := auth.SessionFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)
	file, header, err := r.FormFile("photo")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		writeMessage(w, http.StatusBadRequest, "File exceeds the 10MB limit")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		writeMessage(w, http.StatusBadRequest, "Only JPEG, PNG, and GIF images are allowed")
		return
	}

	category := r.FormValue("category")
	if category == "" {
		writeMessage(w, http.StatusBadRequest, "Category is required")
		return
	}
	if !models.ValidCategory(category) {
		writeMessage(w, http.StatusBadRequest, "Invalid category")
		return
	}

	title := r.FormValue("title")
	if title == "" {
		title = header.Filename
	}

	// The blob is written first so a storage failure leaves no metadata row.
	filename, err := store.Store(r.Context(), file, header.Filename, contentType)
	if err != nil {
		log.Println("Failed to store photo blob:", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to store photo")
		return
	}

	photo := models.Photo{
		UserID:       sess.UserID,
		Filename:     filename,
		OriginalName: header.Filename,
		Category:     category,
		Title:        title,
		Description:  r.FormValue("description"),
		FilePath:     store.URLFor(filename),
		FileSize:     header.Size,
		IsPrivate:    r.FormValue("privacy") == "private",
	}
	if err := db.WithContext(r.Context()).Create(&photo).Error; err != nil {
		log.Println("Failed to save photo metadata:", err)
		if rmErr := store.Remove(r.Context(), filename); rmErr != nil {
			log.Println("Failed to clean up blob after metadata error:", rmErr)
		}
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Photo uploaded successfully",
		"photo":   photoJSON(&photo, sess.Username, store.URLFor(filename)),
	})
}

// ListPhotosHandler returns public photos for the portfolio, newest first,
// optionally filtered by category. No authentication required.
func ListPhotosHandler(w http.ResponseWriter, r *http.Request, db *gorm.DB, store storage.Storage) {
	q := db.WithContext(r.Context()).Where("is_private = ?", false)
	if category := r.URL.Query().Get("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	var photos []models.Photo
	if err := q.Order("created_at DESC, id DESC").Preload("User").Find(&photos).Error; err != nil {
		log.Println("Failed to list photos:", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]map[string]any, 0, len(photos))
	for i := range photos {
		username := ""
		if photos[i].User != nil {
			username = photos[i].User.Username
		}
		out = append(out, photoJSON(&photos[i], username, store.URLFor(photos[i].Filename)))
	}
	writeJSON(w, http.StatusOK, out)
}

// MyPhotosHandler returns all of the session user's photos, private included.
func MyPhotosHandler(w http.ResponseWriter, r *http.Request, db *gorm.DB, store storage.Storage) {
	sess := auth.SessionFrom(r.Context())

	var photos []models.Photo
	err := db.WithContext(r.Context()).
		Where("user_id = ?", sess.UserID).
		Order("created_at DESC, id DESC").
		Find(&photos).Error
	if err != nil {
		log.Println("Failed to list user photos:", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]map[string]any, 0, len(photos))
	for i := range photos {
		out = append(out, photoJSON(&photos[i], sess.Username, store.URLFor(photos[i].Filename)))
	}
	writeJSON(w, http.StatusOK, out)
}

// DeletePhotoHandler removes a photo's metadata and blob. Owners may delete
// their own photos; admins may delete any photo.
func DeletePhotoHandler(w http.ResponseWriter, r *http.Request, db *gorm.DB, store storage.Storage) {
	sess := auth.SessionFrom(r.Context())
	id := chi.URLParam(r, "id")

	var photo models.Photo
	if err := db.WithContext(r.Context()).First(&photo, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeMessage(w, http.StatusNotFound, "Photo not found")
			return
		}
		log.Println("Failed to load photo:", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if !auth.CanModify(sess, photo.UserID) {
		writeMessage(w, http.StatusForbidden, "Not authorized to delete this photo")
		return
	}

	res := db.WithContext(r.Context()).Delete(&models.Photo{}, photo.ID)
	if res.Error != nil {
		log.Println("Failed to delete photo:", res.Error)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	// A concurrent delete already removed the row; report it as gone.
	if res.RowsAffected == 0 {
		writeMessage(w, http.StatusNotFound, "Photo not found")
		return
	}

	// Blob removal is best-effort; a missing file already counts as removed.
	if err := store.Remove(r.Context(), photo.Filename); err != nil {
		log.Println("Failed to remove photo blob:", err)
	}

	writeMessage(w, http.StatusOK, "Photo deleted successfully")
}

// ServeUploadHandler serves raw blob bytes for the local storage backend.
func ServeUploadHandler(w http.ResponseWriter, r *http.Request, local *storage.Local) {
	filename := chi.URLParam(r, "filename")
	path, err := local.Path(filename)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid filename")
		return
	}
	http.ServeFile(w, r, path)
}
