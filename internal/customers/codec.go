package customers

import (
	"encoding/base64"
	"fmt"
)

// Codec transforms email values before they reach storage. Whether emails are
// obfuscated at rest is deployment policy, so the service takes it as a
// dependency rather than hard-coding either behavior.
type Codec interface {
	Encode(plain string) string
	Decode(stored string) (string, error)
}

// PlainCodec stores emails as-is.
type PlainCodec struct{}

func (PlainCodec) Encode(plain string) string           { return plain }
func (PlainCodec) Decode(stored string) (string, error) { return stored, nil }

// XORCodec applies reversible single-byte XOR and base64. This is bit
// flipping, not encryption: it keeps casual eyes off stored addresses and
// nothing more.
type XORCodec struct{ Key byte }

func (c XORCodec) Encode(plain string) string {
	if plain == "" {
		return plain
	}
	b := []byte(plain)
	for i := range b {
		b[i] ^= c.Key
	}
	return base64.StdEncoding.EncodeToString(b)
}

func (c XORCodec) Decode(stored string) (string, error) {
	if stored == "" {
		return stored, nil
	}
	b, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", fmt.Errorf("decode email: %w", err)
	}
	for i := range b {
		b[i] ^= c.Key
	}
	return string(b), nil
}
