package auth

import "testing"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("pw123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "pw123" {
		t.Error("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "pw123") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "pw124") {
		t.Error("wrong password accepted")
	}
	if CheckPassword(hash, "") {
		t.Error("empty password accepted")
	}
}

func TestPasswordHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should differ")
	}
}
