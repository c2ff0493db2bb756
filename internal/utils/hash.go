package utils

import (
	"crypto/hmac"
	"crypto/sha256"
)

// SignHMAC computes an HMAC-SHA256 digest over the given byte slice
// using the provided key. Used to sign remember-me payloads.
func SignHMAC(data []byte, key string) []byte {
	hasher := hmac.New(sha256.New, []byte(key))
	hasher.Write(data)
	return hasher.Sum(nil)
}

// ValidMAC reports whether mac is a valid HMAC-SHA256 signature of data
// under the provided key. Comparison is constant-time.
func ValidMAC(data, mac []byte, key string) bool {
	return hmac.Equal(mac, SignHMAC(data, key))
}
