package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmynk/billtracker/internal/auth"
	"github.com/mmynk/billtracker/internal/models"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"bearer abc", "abc", nil},
		{"", "", auth.ErrMissingToken},
		{"Basic dXNlcjpwYXNz", "", auth.ErrInvalidToken},
		{"Bearer", "", auth.ErrInvalidToken},
		{"Bearer ", "", auth.ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("BearerToken(%q) error = %v, want %v", tt.header, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestWebsocketAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	token, _, err := jwtManager.Generate(&models.User{ID: "user-1", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	authenticate := WebsocketAuth(jwtManager)

	r := httptest.NewRequest("GET", "/ws?token="+token, nil)
	if userID, err := authenticate(r); err != nil || userID != "user-1" {
		t.Errorf("query token: got %q, %v", userID, err)
	}

	r = httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	if userID, err := authenticate(r); err != nil || userID != "user-1" {
		t.Errorf("header token: got %q, %v", userID, err)
	}

	r = httptest.NewRequest("GET", "/ws?token=forged", nil)
	if _, err := authenticate(r); err == nil {
		t.Error("expected forged token to be rejected")
	}
}

func TestWithUser(t *testing.T) {
	info := &requestInfo{}
	ctx := context.WithValue(context.Background(), infoKey{}, info)
	ctx = WithUser(ctx, "user-1", "a@example.com")

	if GetUserID(ctx) != "user-1" || GetEmail(ctx) != "a@example.com" {
		t.Errorf("unexpected context values")
	}
	if info.userID != "user-1" {
		t.Error("WithUser should report the user to the logging interceptor")
	}
}
