package routes

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndSaltPasswordCost(t *testing.T) {
	hash, err := hashAndSaltPassword("secret123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost inspection failed: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("expected default bcrypt cost %d, got %d", bcrypt.DefaultCost, cost)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret123")) != nil {
		t.Fatal("hash does not verify against the original password")
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("wrong")) == nil {
		t.Fatal("hash verified against a wrong password")
	}
}
