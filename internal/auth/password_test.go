package auth

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Errorf("hash %q missing argon2id prefix", hash)
	}

	// Fresh salt every time
	hash2, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == hash2 {
		t.Error("two hashes of the same password should differ")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	ok, err := CheckPassword("s3cret", hash)
	if err != nil {
		t.Fatalf("CheckPassword: %v", err)
	}
	if !ok {
		t.Error("correct password should verify")
	}

	ok, err = CheckPassword("wrong", hash)
	if err != nil {
		t.Fatalf("CheckPassword: %v", err)
	}
	if ok {
		t.Error("wrong password should not verify")
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	for _, h := range []string{
		"",
		"plainhash",
		"$bcrypt$v=19$m=19456,t=2,p=1$salt$hash",
		"$argon2id$v=19$garbage$salt$hash",
	} {
		if _, err := CheckPassword("pw", h); err == nil {
			t.Errorf("CheckPassword(%q) should fail", h)
		}
	}
}
