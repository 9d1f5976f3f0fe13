package password

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"testing"
)

var saltPattern = regexp.MustCompile(`^\$2b\$\d{2}\$[./A-Za-z0-9]{22}$`)

func allHashers(t *testing.T) map[string]Hasher {
	t.Helper()
	hm, err := NewHMACHasher("server-key")
	if err != nil {
		t.Fatalf("NewHMACHasher: %v", err)
	}
	return map[string]Hasher{
		"sha256":      NewSHA256Hasher(),
		"hmac-sha256": hm,
		"argon2id":    NewArgon2Hasher(WithArgon2Memory(8*1024), WithArgon2Threads(1)),
	}
}

func TestHashers_Deterministic(t *testing.T) {
	for name, h := range allHashers(t) {
		t.Run(name, func(t *testing.T) {
			a, err := h.Hash("g0t0m@rs", "$2b$12$abcdefghijklmnopqrstuv")
			if err != nil {
				t.Fatalf("Hash: %v", err)
			}
			b, err := h.Hash("g0t0m@rs", "$2b$12$abcdefghijklmnopqrstuv")
			if err != nil {
				t.Fatalf("Hash: %v", err)
			}
			if a != b {
				t.Errorf("expected identical output, got %q and %q", a, b)
			}
			if !Equal(a, b) {
				t.Error("Equal should report identical secrets")
			}
		})
	}
}

func TestHashers_SaltAndPasswordMatter(t *testing.T) {
	for name, h := range allHashers(t) {
		t.Run(name, func(t *testing.T) {
			base, _ := h.Hash("g0t0m@rs", "salt-one")
			otherSalt, _ := h.Hash("g0t0m@rs", "salt-two")
			otherPassword, _ := h.Hash("g0t0m@rs2", "salt-one")
			if base == otherSalt {
				t.Error("different salts must produce different secrets")
			}
			if base == otherPassword {
				t.Error("different passwords must produce different secrets")
			}
		})
	}
}

func TestHashers_ArbitraryLength(t *testing.T) {
	long := strings.Repeat("p", 10_000)
	for name, h := range allHashers(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := h.Hash(long, long); err != nil {
				t.Errorf("expected long input to hash, got %v", err)
			}
			if _, err := h.Hash("", ""); err != nil {
				t.Errorf("expected empty input to hash, got %v", err)
			}
		})
	}
}

func TestHashers_RejectInvalidUTF8(t *testing.T) {
	for name, h := range allHashers(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := h.Hash("\xff\xfe", "salt"); err != ErrInvalidInput {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSHA256Hasher_MatchesPlainDigest(t *testing.T) {
	sum := sha256.Sum256([]byte("g0t0m@rs" + "salt"))
	got, _ := NewSHA256Hasher().Hash("g0t0m@rs", "salt")
	if got != hex.EncodeToString(sum[:]) {
		t.Errorf("expected sha256(password+salt), got %q", got)
	}
}

func TestHMACHasher_KeyMatters(t *testing.T) {
	a, _ := NewHMACHasher("k1")
	b, _ := NewHMACHasher("k2")
	x, _ := a.Hash("pw", "salt")
	y, _ := b.Hash("pw", "salt")
	if x == y {
		t.Error("different keys must produce different secrets")
	}
	if _, err := NewHMACHasher(""); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestArgon2Hasher_InvalidParams(t *testing.T) {
	h := NewArgon2Hasher(WithArgon2Threads(0))
	if _, err := h.Hash("pw", "salt"); err == nil {
		t.Error("expected error for zero threads")
	}
}

func TestBcryptSalter_Format(t *testing.T) {
	s := NewBcryptSalter(10)
	salt, err := s.Salt()
	if err != nil {
		t.Fatalf("Salt: %v", err)
	}
	if !saltPattern.MatchString(salt) {
		t.Errorf("salt %q does not match bcrypt format", salt)
	}
	if !strings.HasPrefix(salt, "$2b$10$") {
		t.Errorf("expected cost 10 in salt, got %q", salt)
	}
}

func TestBcryptSalter_Unique(t *testing.T) {
	s := NewBcryptSalter(12)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		salt, err := s.Salt()
		if err != nil {
			t.Fatalf("Salt: %v", err)
		}
		if seen[salt] {
			t.Fatalf("duplicate salt %q", salt)
		}
		seen[salt] = true
	}
}

func TestBcryptSalter_CostFallback(t *testing.T) {
	salt, _ := NewBcryptSalter(99).Salt()
	if !strings.HasPrefix(salt, "$2b$10$") {
		t.Errorf("expected default cost 10, got %q", salt)
	}
}

func TestBcryptSalter_ReadError(t *testing.T) {
	s := &BcryptSalter{cost: 12, rand: bytes.NewReader(nil)}
	if _, err := s.Salt(); err == nil {
		t.Error("expected error when the random source is exhausted")
	}
}

func TestConfig_DefaultsAndValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Algorithm != AlgorithmSHA256 || cfg.MinLength != 8 || cfg.MaxLength != 128 || cfg.SaltCost != 12 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := Config{Algorithm: AlgorithmHMACSHA256}
	bad.ApplyDefaults()
	if err := bad.Validate(); err == nil {
		t.Error("expected error for hmac without key")
	}

	unknown := Config{Algorithm: "md5"}
	unknown.ApplyDefaults()
	if err := unknown.Validate(); err == nil {
		t.Error("expected error for unknown algorithm")
	}
}

func TestNewHasher_Selects(t *testing.T) {
	h, err := NewHasher(Config{Algorithm: AlgorithmArgon2id})
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	if _, ok := h.(*Argon2Hasher); !ok {
		t.Errorf("expected *Argon2Hasher, got %T", h)
	}
	h, err = NewHasher(Config{Algorithm: AlgorithmHMACSHA256, Key: "k"})
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	if _, ok := h.(*HMACHasher); !ok {
		t.Errorf("expected *HMACHasher, got %T", h)
	}
	h, _ = NewHasher(Config{})
	if _, ok := h.(*SHA256Hasher); !ok {
		t.Errorf("expected *SHA256Hasher by default, got %T", h)
	}
	if _, ok := NewSalter(Config{}).(*BcryptSalter); !ok {
		t.Error("expected *BcryptSalter")
	}
}
