package main

import "bytes"

// PasswordBlockSize is the PKCS#7 block size used for padded passwords
const PasswordBlockSize = 32

// pkcs7Pad always appends between 1 and blockSize bytes, so input that is
// already block-aligned grows by a full block.
func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data), len(data)+n)
	copy(padded, data)
	return append(padded, bytes.Repeat([]byte{byte(n)}, n)...)
}

// preparePassword returns a fresh copy of the key material for mode. The
// caller owns the result and should zero it.
func preparePassword(password []byte, mode PasswordMode) []byte {
	if mode == PasswordPadded {
		return pkcs7Pad(password, PasswordBlockSize)
	}
	return bytes.Clone(password)
}
