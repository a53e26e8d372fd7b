package utils

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret")

	token, err := issuer.Issue(7, "rider", "rider@example.com", false)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "rider" || claims.IsAdmin {
		t.Errorf("claims = %+v, want the issued identity", claims)
	}
}

func TestTokenWrongSecretFailsClosed(t *testing.T) {
	token, err := NewTokenIssuer("secret-a").Issue(1, "u", "u@example.com", false)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := NewTokenIssuer("secret-b").Verify(token); err != ErrTokenInvalid {
		t.Errorf("verify with wrong secret: err = %v, want ErrTokenInvalid", err)
	}
}

func TestTokenGarbageFailsClosed(t *testing.T) {
	issuer := NewTokenIssuer("secret")
	for _, bad := range []string{"", "garbage", "a.b.c"} {
		if _, err := issuer.Verify(bad); err != ErrTokenInvalid {
			t.Errorf("Verify(%q): err = %v, want ErrTokenInvalid", bad, err)
		}
	}
}

func TestRefreshKeepsClaims(t *testing.T) {
	issuer := NewTokenIssuer("secret")
	token, _ := issuer.Issue(3, "admin", "admin@example.com", true)

	refreshed, err := issuer.Refresh(token)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	claims, err := issuer.Verify(refreshed)
	if err != nil {
		t.Fatalf("verify refreshed failed: %v", err)
	}
	if claims.UserID != 3 || !claims.IsAdmin {
		t.Errorf("claims = %+v, want the original identity", claims)
	}

	if _, err := issuer.Refresh("garbage"); err == nil {
		t.Error("refresh of a garbage token should fail")
	}
}
