package utils

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plain password")
	}
	if !CheckPasswordHash("s3cret-pass", hash) {
		t.Error("expected matching password to verify")
	}
	if CheckPasswordHash("wrong-pass", hash) {
		t.Error("expected wrong password to fail verification")
	}
}
