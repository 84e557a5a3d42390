package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateAndValidateToken(t *testing.T) {
	mgr := NewJWTManager("test-secret")

	token, err := mgr.GenerateToken("guest-123", "Wandering Siphon")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := mgr.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.PlayerID != "guest-123" {
		t.Errorf("player ID = %q, want guest-123", claims.PlayerID)
	}
	if claims.DisplayName != "Wandering Siphon" {
		t.Errorf("display name = %q", claims.DisplayName)
	}
}

func TestValidateToken_Rejections(t *testing.T) {
	mgr := NewJWTManager("test-secret")
	other := NewJWTManager("other-secret")

	token, err := other.GenerateToken("guest-123", "X")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	for name, tok := range map[string]string{
		"wrong secret": token,
		"garbage":      "not.a.jwt",
		"empty":        "",
	} {
		if _, err := mgr.ValidateToken(tok); err != ErrInvalidToken {
			t.Errorf("%s: got %v, want ErrInvalidToken", name, err)
		}
	}
}

func TestMiddleware(t *testing.T) {
	mgr := NewJWTManager("test-secret")
	token, err := mgr.GenerateToken("guest-123", "X")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var gotID string
	handler := Middleware(mgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = PlayerIDFromContext(r.Context())
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid bearer", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotID = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && gotID != "guest-123" {
				t.Errorf("context player ID = %q", gotID)
			}
		})
	}
}
