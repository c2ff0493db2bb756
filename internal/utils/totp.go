// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// RFC 6238 parameters matching the defaults of common authenticator apps:
// 20-byte secret, 30-second step, 6 digits, HMAC-SHA1, one step of clock skew
// tolerated in each direction.
const (
	totpSecretBytes = 20
	totpPeriod      = 30
	totpDigits      = 6
	totpSkew        = 1
)

// base32 without padding, the alphabet authenticator apps expect.
var totpEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateTOTPSecret produces a fresh random shared secret, base32-encoded
// without padding.
func GenerateTOTPSecret() (string, error) {
	raw := make([]byte, totpSecretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("error generating TOTP secret: %w", err)
	}

	return totpEncoding.EncodeToString(raw), nil
}

// TOTPProvisionURI builds an otpauth:// URI that encodes the shared secret
// and parameters for enrollment in an authenticator app, typically rendered
// as a QR code.
//
// Example:
//
//	otpauth://totp/SecFit:alice?algorithm=SHA1&digits=6&issuer=SecFit&period=30&secret=...
func TOTPProvisionURI(secret, issuer, account string) string {
	label := url.PathEscape(issuer + ":" + account)

	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", issuer)
	v.Set("period", fmt.Sprint(totpPeriod))
	v.Set("digits", fmt.Sprint(totpDigits))
	v.Set("algorithm", "SHA1")

	return "otpauth://totp/" + label + "?" + v.Encode()
}

// VerifyTOTPCode reports whether code is the valid TOTP code for the given
// base32 shared secret at time now, tolerating one step of clock skew in
// each direction. Comparison against each candidate is constant-time.
//
// Malformed input (wrong length, non-digits, undecodable secret) is reported
// as a plain mismatch.
func VerifyTOTPCode(secret, code string, now time.Time) bool {
	trimmed := strings.TrimSpace(code)
	if len(trimmed) != totpDigits || !isNumericString(trimmed) {
		return false
	}

	key, err := totpEncoding.DecodeString(strings.ToUpper(secret))
	if err != nil || len(key) == 0 {
		return false
	}

	baseCounter := now.Unix() / totpPeriod
	for step := int64(-totpSkew); step <= totpSkew; step++ {
		counter := baseCounter + step
		if counter < 0 {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(hotpCode(key, counter)), []byte(trimmed)) == 1 {
			return true
		}
	}

	return false
}

// hotpCode computes the RFC 4226 HOTP value for the given key and counter.
func hotpCode(key []byte, counter int64) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))

	mac := hmac.New(sha1.New, key)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	bin := (int(sum[offset])&0x7f)<<24 |
		(int(sum[offset+1])&0xff)<<16 |
		(int(sum[offset+2])&0xff)<<8 |
		(int(sum[offset+3]) & 0xff)

	mod := 1
	for i := 0; i < totpDigits; i++ {
		mod *= 10
	}

	return fmt.Sprintf("%0*d", totpDigits, bin%mod)
}

func isNumericString(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
