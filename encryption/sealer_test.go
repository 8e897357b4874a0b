package encryption

import (
	"bytes"
	"strings"
	"testing"
)

func TestSealOpen(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmAESGCM, AlgorithmChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			s, err := NewRandom(alg)
			if err != nil {
				t.Fatalf("NewRandom: %v", err)
			}
			if s.Algorithm() != alg {
				t.Errorf("Algorithm() = %s", s.Algorithm())
			}

			secret := []byte("gsk_live_abcdef123456")
			a, err := s.Seal(secret)
			if err != nil {
				t.Fatal(err)
			}
			b, _ := s.Seal(secret)
			if bytes.Equal(a, b) {
				t.Error("two seals of the same input should differ")
			}
			if bytes.Contains(a, secret) {
				t.Error("ciphertext contains the plaintext")
			}

			got, err := s.Open(a)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if !bytes.Equal(got, secret) {
				t.Errorf("Open = %q", got)
			}
		})
	}
}

func TestOpen_Tampered(t *testing.T) {
	s, _ := NewRandom(AlgorithmAESGCM)
	sealed, _ := s.Seal([]byte("secret"))
	sealed[len(sealed)-1] ^= 0xff
	if _, err := s.Open(sealed); err == nil {
		t.Error("expected authentication failure")
	}
	if _, err := s.Open([]byte{1, 2, 3}); err == nil || !strings.Contains(err.Error(), "too short") {
		t.Errorf("short input err = %v", err)
	}
}

func TestOpen_OtherKeyFails(t *testing.T) {
	a, _ := NewRandom(AlgorithmChaCha20)
	b, _ := NewRandom(AlgorithmChaCha20)
	sealed, _ := a.Seal([]byte("secret"))
	if _, err := b.Open(sealed); err == nil {
		t.Error("a different key must not open the data")
	}
}

func TestNew_BadKey(t *testing.T) {
	if _, err := New(AlgorithmAESGCM, []byte("short")); err == nil {
		t.Error("expected key size error")
	}
	if _, err := New("rot13", make([]byte, KeySize)); err == nil {
		t.Error("expected unknown cipher error")
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := map[string]Algorithm{"": AlgorithmAESGCM, "AES-256-GCM": AlgorithmAESGCM, "chacha20-poly1305": AlgorithmChaCha20}
	for in, want := range tests {
		got, err := ParseAlgorithm(in)
		if err != nil || got != want {
			t.Errorf("ParseAlgorithm(%q) = %s, %v", in, got, err)
		}
	}
	if _, err := ParseAlgorithm("des"); err == nil {
		t.Error("expected error")
	}
}
