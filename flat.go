package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Width of the ASCII-decimal length prefix in front of each field
const (
	saltPrefixWidth  = 3
	noncePrefixWidth = 2
	tagPrefixWidth   = 2
)

// FormatRecord lays a bundle out as a flat record:
//
//	<saltLen:3><saltHex><nonceLen:2><nonceHex><tagLen:2><tagHex><ciphertextHex>
//
// Lengths count bytes, not hex characters.
func FormatRecord(b *Bundle) (string, error) {
	var sb strings.Builder
	fields := []struct {
		name  string
		width int
		data  []byte
	}{
		{"salt", saltPrefixWidth, b.Salt},
		{"nonce", noncePrefixWidth, b.Nonce},
		{"tag", tagPrefixWidth, b.Tag},
	}
	for _, f := range fields {
		prefix := fmt.Sprintf("%0*d", f.width, len(f.data))
		if len(prefix) != f.width {
			return "", fmt.Errorf("%s is %d bytes, too long for a %d digit prefix", f.name, len(f.data), f.width)
		}
		sb.WriteString(prefix)
		sb.WriteString(hex.EncodeToString(f.data))
	}
	sb.WriteString(hex.EncodeToString(b.Ciphertext))
	return sb.String(), nil
}

// ParseRecord splits a flat record into its fields. It never reads past
// the end of the input; any layout violation wraps ErrInvalidRecord.
func ParseRecord(record string) (*Record, error) {
	s := strings.TrimSpace(record)
	if s == "" {
		return nil, fmt.Errorf("%w: empty record", ErrInvalidRecord)
	}

	var rec Record
	pos := 0
	var err error

	if rec.SaltHex, rec.Bundle.Salt, pos, err = readField(s, pos, saltPrefixWidth, "salt"); err != nil {
		return nil, err
	}
	if rec.NonceHex, rec.Bundle.Nonce, pos, err = readField(s, pos, noncePrefixWidth, "nonce"); err != nil {
		return nil, err
	}
	if rec.TagHex, rec.Bundle.Tag, pos, err = readField(s, pos, tagPrefixWidth, "tag"); err != nil {
		return nil, err
	}

	rec.CiphertextHex = s[pos:]
	if rec.Bundle.Ciphertext, err = hex.DecodeString(rec.CiphertextHex); err != nil {
		return nil, fmt.Errorf("%w: ciphertext: %v", ErrInvalidRecord, err)
	}

	return &rec, nil
}

// readField reads one length-prefixed hex field starting at pos and
// returns the hex text, the decoded bytes and the position after it.
func readField(s string, pos, width int, name string) (string, []byte, int, error) {
	if len(s)-pos < width {
		return "", nil, pos, fmt.Errorf("%w: truncated %s length", ErrInvalidRecord, name)
	}
	digits := s[pos : pos+width]
	n, err := strconv.ParseUint(digits, 10, 16)
	if err != nil {
		return "", nil, pos, fmt.Errorf("%w: %s length %q is not decimal", ErrInvalidRecord, name, digits)
	}
	pos += width

	hexLen := int(n) * 2
	if len(s)-pos < hexLen {
		return "", nil, pos, fmt.Errorf("%w: %s declares %d bytes but only %d hex characters remain",
			ErrInvalidRecord, name, n, len(s)-pos)
	}
	text := s[pos : pos+hexLen]
	data, err := hex.DecodeString(text)
	if err != nil {
		return "", nil, pos, fmt.Errorf("%w: %s: %v", ErrInvalidRecord, name, err)
	}
	return text, data, pos + hexLen, nil
}

// Open derives the key from password prepared per mode and verifies the
// record's bundle.
func (r *Record) Open(password []byte, mode PasswordMode) ([]byte, error) {
	key := preparePassword(password, mode)
	defer zeroBytes(key)
	return Open(&r.Bundle, key)
}

// Decode parses a flat record and opens it. Parse failures wrap
// ErrInvalidRecord and tag failures return ErrAuthenticationFailure. The
// parsed record is returned whenever parsing succeeded.
func Decode(record string, password []byte, mode PasswordMode) (*Record, []byte, error) {
	rec, err := ParseRecord(record)
	if err != nil {
		return nil, nil, err
	}
	plaintext, err := rec.Open(password, mode)
	if err != nil {
		return rec, nil, err
	}
	return rec, plaintext, nil
}
