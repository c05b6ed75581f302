package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for content hashes.
// The version suffix leaves room for algorithm migration.
const (
	DomainIR     = "stackjs/ir/v1"
	DomainSource = "stackjs/source/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data) as lowercase hex.
// The null byte keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint identifies an IR program by content.
// Equal programs have equal fingerprints across processes and platforms.
func Fingerprint(p Program) (string, error) {
	canonical, err := MarshalCanonical(p)
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainIR, canonical), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when the program is known to be well formed.
func MustFingerprint(p Program) string {
	fp, err := Fingerprint(p)
	if err != nil {
		panic(err)
	}
	return fp
}

// SourceHash identifies source text by content, after NFC normalization.
// It is the cache key of the compilation log.
func SourceHash(src string) string {
	return hashWithDomain(DomainSource, []byte(norm.NFC.String(src)))
}
