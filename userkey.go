package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

// alphabet for generated passwords and identifiers
const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomString returns n characters drawn uniformly from alphabet
func RandomString(n int) (string, error) {
	size := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("failed to generate random string: %w", err)
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}

// UserKey is the hex SHA-256 of the concatenated inputs. The provisioning
// flow passes the config password as key and a random string as salt.
func UserKey(uid, username, key, salt string) string {
	sum := sha256.Sum256([]byte(uid + username + key + salt))
	return hex.EncodeToString(sum[:])
}
