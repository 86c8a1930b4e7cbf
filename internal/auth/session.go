package auth

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/underneath-media/portfolio-api/models"
	"gorm.io/gorm"
)

const (
	// CookieName is the browser cookie carrying the opaque session token.
	CookieName = "portfolio_session"

	tokenKey = "token"

	// SessionTTL is how long a session stays valid after login or registration.
	SessionTTL = 24 * time.Hour
)

// Sessions issues and resolves opaque session tokens. The cookie only
// carries the token; the authoritative state lives in the sessions table.
type Sessions struct {
	db     *gorm.DB
	cookie *sessions.CookieStore
}

func NewSessions(db *gorm.DB, secret string, secure bool) *Sessions {
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(int(SessionTTL / time.Second))
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	return &Sessions{db: db, cookie: store}
}

// Create persists a new session for the user and writes the session cookie.
func (s *Sessions) Create(w http.ResponseWriter, r *http.Request, user *models.User) error {
	sess := models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		ExpiresAt: time.Now().Add(SessionTTL),
	}
	if err := s.db.WithContext(r.Context()).Create(&sess).Error; err != nil {
		return err
	}

	cookie, _ := s.cookie.Get(r, CookieName)
	cookie.Values[tokenKey] = sess.Token
	return cookie.Save(r, w)
}

// Resolve returns the session for the request's cookie, or nil when the
// cookie is missing, the token is unknown or expired, or the backing user
// record no longer exists. Expired rows are removed on sight.
func (s *Sessions) Resolve(r *http.Request) *models.Session {
	cookie, err := s.cookie.Get(r, CookieName)
	if err != nil {
		return nil
	}
	token, ok := cookie.Values[tokenKey].(string)
	if !ok || token == "" {
		return nil
	}

	var sess models.Session
	if err := s.db.WithContext(r.Context()).First(&sess, "token = ?", token).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Println("Session lookup failed:", err)
		}
		return nil
	}

	if time.Now().After(sess.ExpiresAt) {
		s.db.WithContext(r.Context()).Delete(&models.Session{}, "token = ?", token)
		return nil
	}

	// A session for a removed user must not authenticate.
	var count int64
	if err := s.db.WithContext(r.Context()).Model(&models.User{}).Where("id = ?", sess.UserID).Count(&count).Error; err != nil {
		log.Println("Session user check failed:", err)
		return nil
	}
	if count == 0 {
		s.db.WithContext(r.Context()).Delete(&models.Session{}, "token = ?", token)
		return nil
	}
	return &sess
}

// Destroy removes the session row and expires the cookie. Destroying a
// session that no longer exists is a no-op.
func (s *Sessions) Destroy(w http.ResponseWriter, r *http.Request) error {
	cookie, err := s.cookie.Get(r, CookieName)
	if err == nil {
		if token, ok := cookie.Values[tokenKey].(string); ok && token != "" {
			if err := s.db.WithContext(r.Context()).Delete(&models.Session{}, "token = ?", token).Error; err != nil {
				return err
			}
		}
	}
	cookie.Options.MaxAge = -1
	delete(cookie.Values, tokenKey)
	return cookie.Save(r, w)
}
