package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/example/bookmyroom/internal/model"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	user := model.User{ID: "u-1", Email: "jana@example.com", Role: model.RoleEmployee}

	raw, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := issuer.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u-1" || claims.Email != "jana@example.com" || claims.Role != model.RoleEmployee {
		t.Fatalf("claims wrong: %+v", claims)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	raw, err := NewTokenIssuer("secret-a", time.Hour).Issue(model.User{ID: "u-1", Role: model.RoleViewer})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewTokenIssuer("secret-b", time.Hour).Parse(raw); err == nil {
		t.Fatal("token signed with another secret must not parse")
	}
}

func TestTokenTamperedRejected(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	raw, err := issuer.Issue(model.User{ID: "u-1", Role: model.RoleViewer})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", raw)
	}
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, err := issuer.Parse(tampered); err == nil {
		t.Fatal("tampered token must not parse")
	}
}

func TestTokenExpiredRejected(t *testing.T) {
	issuer := &TokenIssuer{secret: []byte("test-secret"), ttl: -time.Minute}
	raw, err := issuer.Issue(model.User{ID: "u-1", Role: model.RoleViewer})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Parse(raw); err == nil {
		t.Fatal("expired token must not parse")
	}
}
