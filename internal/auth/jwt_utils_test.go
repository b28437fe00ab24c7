package auth

import (
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-1", "tenant-1", "ADMIN")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected user-1, got %q", claims.UserID)
	}
	if claims.TenantID != "tenant-1" {
		t.Fatalf("expected tenant-1, got %q", claims.TenantID)
	}
	if claims.Role != "ADMIN" {
		t.Fatalf("expected ADMIN, got %q", claims.Role)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	token, err := GenerateToken("user-1", "tenant-1", "CASHIER")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	tampered := token[:len(token)-4] + "AAAA"
	if _, err := ValidateToken(tampered); err == nil {
		t.Fatal("expected error for tampered signature")
	}
}
