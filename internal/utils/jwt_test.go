package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT("user-1", "DOCTOR", "clinic-1")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "DOCTOR" || claims.ClinicID != "clinic-1" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestValidateJWTRejectsTampered(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT("user-1", "PATIENT", "")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ValidateJWT(token + "x"); err == nil {
		t.Error("expected tampered token to be rejected")
	}
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	token, err := GenerateJWT("user-1", "PATIENT", "")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	t.Setenv("JWT_SECRET", "secret-b")
	if _, err := ValidateJWT(token); err == nil {
		t.Error("expected token signed with another secret to be rejected")
	}
}

func TestValidateJWTRejectsOtherSigningMethod(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	// Same secret, different HMAC variant. Only HS256 is accepted.
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{UserID: "user-1", Role: "PATIENT"})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	if _, err := ValidateJWT(signed); err == nil {
		t.Error("expected HS512 token to be rejected")
	}
}

func TestJWTRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := GenerateJWT("user-1", "PATIENT", ""); err == nil {
		t.Error("expected error when JWT_SECRET is unset")
	}
}
