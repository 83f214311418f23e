package helper

import (
	"testing"
)

func TestGenerateAndValidateToken(t *testing.T) {
	SECRET_KEY = "unit-test-secret"

	token, refreshToken, err := GenerateAllTokens("owner@example.com", "Jin", "Kim", "store-1", "user-1")
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}
	if token == "" || refreshToken == "" {
		t.Fatal("expected non-empty tokens")
	}

	claims, msg := ValidateToken(token)
	if msg != "" {
		t.Fatalf("expected valid token, got error %q", msg)
	}
	if claims.Email != "owner@example.com" || claims.Uid != "user-1" || claims.StoreId != "store-1" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	refreshClaims, msg := ValidateToken(refreshToken)
	if msg != "" {
		t.Fatalf("expected valid refresh token, got error %q", msg)
	}
	if refreshClaims.Uid != "user-1" {
		t.Errorf("expected refresh token to carry the uid, got %+v", refreshClaims)
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	SECRET_KEY = "unit-test-secret"

	if _, msg := ValidateToken("not.a.token"); msg == "" {
		t.Error("expected an error message for a malformed token")
	}
}

func TestValidateToken_WrongKey(t *testing.T) {
	SECRET_KEY = "unit-test-secret"
	token, _, err := GenerateAllTokens("owner@example.com", "Jin", "Kim", "store-1", "user-1")
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	SECRET_KEY = "a-different-secret"
	if _, msg := ValidateToken(token); msg == "" {
		t.Error("expected validation to fail with a different signing key")
	}
}
