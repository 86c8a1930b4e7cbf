package auth

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/underneath-media/portfolio-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A file-backed database: with :memory: every pooled connection gets
	// its own empty database.
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Photo{}, &models.Session{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := models.User{
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: "irrelevant",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

// login runs Create and returns a request carrying the issued cookie.
func login(t *testing.T, s *Sessions, user *models.User) *http.Request {
	t.Helper()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	if err := s.Create(w, r, user); err != nil {
		t.Fatalf("create session: %v", err)
	}
	next := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	for _, c := range w.Result().Cookies() {
		next.AddCookie(c)
	}
	return next
}

func TestSessionCreateAndResolve(t *testing.T) {
	db := testDB(t)
	s := NewSessions(db, "test-secret", false)
	user := testUser(t, db)

	r := login(t, s, user)
	sess := s.Resolve(r)
	if sess == nil {
		t.Fatal("expected a valid session")
	}
	if sess.UserID != user.ID || sess.Username != "alice" || sess.IsAdmin {
		t.Errorf("unexpected session state: %+v", sess)
	}
	if time.Until(sess.ExpiresAt) > SessionTTL {
		t.Errorf("expiry beyond TTL: %v", sess.ExpiresAt)
	}
}

func TestResolveWithoutCookie(t *testing.T) {
	db := testDB(t)
	s := NewSessions(db, "test-secret", false)

	r := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	if sess := s.Resolve(r); sess != nil {
		t.Errorf("anonymous request resolved to %+v", sess)
	}
}

func TestResolveExpiredSession(t *testing.T) {
	db := testDB(t)
	s := NewSessions(db, "test-secret", false)
	user := testUser(t, db)

	r := login(t, s, user)
	if err := db.Model(&models.Session{}).Where("user_id = ?", user.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error; err != nil {
		t.Fatalf("expire session: %v", err)
	}

	if sess := s.Resolve(r); sess != nil {
		t.Error("expired session should not resolve")
	}

	var count int64
	db.Model(&models.Session{}).Count(&count)
	if count != 0 {
		t.Errorf("expired session row not removed, %d rows left", count)
	}
}

func TestResolveDeletedUser(t *testing.T) {
	db := testDB(t)
	s := NewSessions(db, "test-secret", false)
	user := testUser(t, db)

	r := login(t, s, user)
	if err := db.Delete(&models.User{}, user.ID).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if sess := s.Resolve(r); sess != nil {
		t.Error("session of a deleted user should not resolve")
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	db := testDB(t)
	s := NewSessions(db, "test-secret", false)
	user := testUser(t, db)

	r := login(t, s, user)

	w := httptest.NewRecorder()
	if err := s.Destroy(w, r); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if sess := s.Resolve(r); sess != nil {
		t.Error("destroyed session still resolves")
	}

	// A second destroy of the same token must not error.
	if err := s.Destroy(httptest.NewRecorder(), r); err != nil {
		t.Fatalf("repeat destroy: %v", err)
	}
}
