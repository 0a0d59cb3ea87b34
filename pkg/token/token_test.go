package token

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager("secret", time.Hour, "isletmenum")

	signed, issued, err := m.Issue(42)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := m.Parse(signed)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.UserID != 42 || claims.Subject != "42" {
		t.Errorf("Parse() user = %d/%s, want 42", claims.UserID, claims.Subject)
	}
	if claims.ID != issued.ID || claims.ID == "" {
		t.Errorf("Parse() jti = %q, want %q", claims.ID, issued.ID)
	}
}

func TestParseRejects(t *testing.T) {
	m := NewManager("secret", time.Hour, "isletmenum")
	other := NewManager("other-secret", time.Hour, "isletmenum")

	expired := NewManager("secret", time.Hour, "isletmenum")
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	foreign, _, _ := other.Issue(1)
	stale, _, _ := expired.Issue(1)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"wrong signature", foreign},
		{"expired", stale},
		{"alg none", "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJ1aWQiOjEsImp0aSI6IngiLCJleHAiOjk5OTk5OTk5OTl9."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Parse(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
