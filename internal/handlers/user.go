package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/underneath-media/portfolio-api/internal/auth"
	"github.com/underneath-media/portfolio-api/models"
	"gorm.io/gorm"
)

func userJSON(u *models.User) map[string]any {
	return map[string]any{
		"id":           u.ID,
		"username":     u.Username,
		"email":        u.Email,
		"fullName":     u.FullName,
		"profileImage": u.ProfileImage,
		"isAdmin":      u.IsAdmin,
	}
}

func RegisterHandler(w http.ResponseWriter, r *http.Request, db *gorm.DB, sessions *auth.Sessions) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"fullName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Username, email, and password are required")
		return
	}

	var count int64
	if err := db.WithContext(r.Context()).Model(&models.User{}).
		Where("username = ? OR email = ?", req.Username, req.Email).
		Count(&count).Error; err != nil {
		log.Println("Registration lookup failed:", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if count > 0 {
		writeMessage(w, http.StatusBadRequest, "Username or email already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Println("Password hashing failed:", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
	}
	if err := db.WithContext(r.Context()).Create(&user).Error; err != nil {
		// Unique constraints can still trip under concurrent registration.
		writeMessage(w, http.StatusBadRequest, "Username or email already exists")
		return
	}

	if err := sessions.Create(w, r, &user); err != nil {
		log.Println("Failed to create session:", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User created successfully",
		"user":    userJSON(&user),
	})
}

func LoginHandler(w http.ResponseWriter, r *http.Request, db *gorm.DB, sessions *auth.Sessions) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	// The identifier may be a username or an email address.
	var user models.User
	err := db.WithContext(r.Context()).
		Where("username = ? OR email = ?", req.Username, req.Username).
		Order("id").
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Println("Login lookup failed:", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := sessions.Create(w, r, &user); err != nil {
		log.Println("Failed to create session:", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    userJSON(&user),
	})
}

func LogoutHandler(w http.ResponseWriter, r *http.Request, sessions *auth.Sessions) {
	if err := sessions.Destroy(w, r); err != nil {
		log.Println("Failed to destroy session:", err)
		writeMessage(w, http.StatusInternalServerError, "Could not log out")
		return
	}
	writeMessage(w, http.StatusOK, "Logout successful")
}

func CurrentUserHandler(w http.ResponseWriter, r *http.Request, db *gorm.DB) {
	sess := auth.SessionFrom(r.Context())

	var user models.User
	if err := db.WithContext(r.Context()).First(&user, sess.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		log.Println("Get user failed:", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, userJSON(&user))
}
