package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestPasswordService() *PasswordService {
	return NewPasswordService(bcrypt.MinCost)
}

// =========================================================================
// Hash TESTS
// =========================================================================

func TestHash_OutputLooksBcrypt(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$04$") {
		t.Errorf("Hash() = %q, want a cost-4 bcrypt hash", hash)
	}
	if hash == "password123" {
		t.Error("Hash() returned the plaintext")
	}
}

func TestHash_SamePasswordProducesDifferentHashes(t *testing.T) {
	ps := newTestPasswordService()

	h1, _ := ps.Hash("secret1")
	h2, _ := ps.Hash("secret1")
	if h1 == h2 {
		t.Error("Hash() produced identical hashes; salt is not random")
	}
}

func TestHash_LongPasswordUsesEveryByte(t *testing.T) {
	ps := newTestPasswordService()
	long := strings.Repeat("correct horse battery staple ", 5)

	hash, err := ps.Hash(long)
	if err != nil {
		t.Fatalf("Hash() of a %d-byte password error = %v", len(long), err)
	}
	if err := ps.Verify(hash, long); err != nil {
		t.Errorf("Verify() of the same long password error = %v", err)
	}

	// Same first 72 bytes, different tail.
	if err := ps.Verify(hash, long[:72]+"x"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Verify() with a different tail error = %v, want ErrPasswordMismatch", err)
	}
}

func TestNewPasswordService_CostOutOfRange(t *testing.T) {
	for _, cost := range []int{0, 3, 32} {
		if got := NewPasswordService(cost).cost; got != DefaultCost {
			t.Errorf("NewPasswordService(%d).cost = %d, want %d", cost, got, DefaultCost)
		}
	}
}

// =========================================================================
// Verify TESTS
// =========================================================================

func TestVerify(t *testing.T) {
	ps := newTestPasswordService()
	hash, err := ps.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	tests := []struct {
		name      string
		plaintext string
		wantErr   error
	}{
		{"correct", "secret1", nil},
		{"wrong", "secret2", ErrPasswordMismatch},
		{"empty", "", ErrPasswordMismatch},
		{"case differs", "SECRET1", ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ps.Verify(hash, tt.plaintext)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerify_GarbageHash(t *testing.T) {
	ps := newTestPasswordService()

	err := ps.Verify("not-a-bcrypt-hash", "secret1")
	if err == nil {
		t.Fatal("Verify() accepted a garbage hash")
	}
	if errors.Is(err, ErrPasswordMismatch) {
		t.Error("a malformed hash should not be reported as a plain mismatch")
	}
}
