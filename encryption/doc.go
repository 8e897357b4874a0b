// Package encryption seals small secrets with an AEAD cipher.
//
// Two algorithms are supported: AES-256-GCM (default) and
// ChaCha20-Poly1305, which performs well on CPUs without AES hardware
// acceleration. Keys are 32 bytes; NewRandom draws one from crypto/rand so
// ciphertext is only readable inside the process that sealed it.
//
// # Usage
//
//	s, err := encryption.NewRandom()
//	sealed, err := s.Seal([]byte("secret"))
//	plain, err := s.Open(sealed)
package encryption
