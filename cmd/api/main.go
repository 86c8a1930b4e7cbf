package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/underneath-media/portfolio-api/internal/auth"
	"github.com/underneath-media/portfolio-api/internal/config"
	"github.com/underneath-media/portfolio-api/internal/handlers"
	"github.com/underneath-media/portfolio-api/internal/storage"
	"github.com/underneath-media/portfolio-api/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	// Chi
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Database connection
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate models
	if err := db.AutoMigrate(&models.User{}, &models.Photo{}, &models.Session{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}

	// Session manager
	sessions := auth.NewSessions(db, cfg.SessionSecret, cfg.SecureCookies)

	// Blob storage backend
	var store storage.Storage
	var local *storage.Local
	switch cfg.StorageDriver {
	case "s3":
		store, err = storage.NewS3(context.Background(), storage.S3Config{
			AccountID:       cfg.AccountID,
			AccessKeyID:     cfg.AccessKeyID,
			AccessKeySecret: cfg.AccessKeySecret,
			Bucket:          cfg.BucketName,
			PublicURL:       cfg.PublicURL,
		})
		if err != nil {
			log.Fatalf("Failed to set up S3 storage: %v", err)
		}
	default:
		local, err = storage.NewLocal(cfg.UploadDir)
		if err != nil {
			log.Fatalf("Failed to set up local storage: %v", err)
		}
		store = local
	}

	// Public routes
	r.Post("/api/register", func(w http.ResponseWriter, r *http.Request) {
		handlers.RegisterHandler(w, r, db, sessions)
	})
	r.Post("/api/login", func(w http.ResponseWriter, r *http.Request) {
		handlers.LoginHandler(w, r, db, sessions)
	})
	r.Get("/api/photos", func(w http.ResponseWriter, r *http.Request) {
		handlers.ListPhotosHandler(w, r, db, store)
	})

	// Routes requiring an authenticated session
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(sessions))
		r.Post("/api/logout", func(w http.ResponseWriter, r *http.Request) {
			handlers.LogoutHandler(w, r, sessions)
		})
		r.Get("/api/user", func(w http.ResponseWriter, r *http.Request) {
			handlers.CurrentUserHandler(w, r, db)
		})
		r.Post("/api/photos/upload", func(w http.ResponseWriter, r *http.Request) {
			handlers.UploadPhotoHandler(w, r, db, store)
		})
		r.Get("/api/photos/my", func(w http.ResponseWriter, r *http.Request) {
			handlers.MyPhotosHandler(w, r, db, store)
		})
		r.Delete("/api/photos/{id}", func(w http.ResponseWriter, r *http.Request) {
			handlers.DeletePhotoHandler(w, r, db, store)
		})
	})

	// Raw blob retrieval only applies to the disk backend; the S3 backend
	// serves photos from its public bucket URL.
	if local != nil {
		r.Get("/uploads/{filename}", func(w http.ResponseWriter, r *http.Request) {
			handlers.ServeUploadHandler(w, r, local)
		})
	}

	log.Println("Starting API server on :" + cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
