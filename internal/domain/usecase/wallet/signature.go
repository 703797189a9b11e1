package wallet

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"sort"
	"strings"
)

// Credential field names in a callback
const (
	FieldKey  = "key"
	FieldSign = "sign"
)

// Sign computes the callback signature: hex HMAC-SHA256 keyed by secret over the
// values of every field except sign, ordered by field name and joined with ":"
func Sign(fields map[string]string, secret string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		if name != FieldSign {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	values := make([]string, 0, len(names))
	for _, name := range names {
		values = append(values, fields[name])
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.Join(values, ":")))
	return hex.EncodeToString(mac.Sum(nil))
}

// Authenticator verifies callback credentials against the shared secret
type Authenticator struct {
	secret           string
	requireSignature bool
}

// NewAuthenticator creates an Authenticator. With requireSignature set the plain
// shared-secret comparison is not accepted.
func NewAuthenticator(secret string, requireSignature bool) *Authenticator {
	return &Authenticator{secret: secret, requireSignature: requireSignature}
}

// Verify reports whether the fields carry a valid signature or shared secret
func (a *Authenticator) Verify(fields map[string]string) bool {
	if a.secret == "" {
		return false
	}

	if sign, ok := fields[FieldSign]; ok && sign != "" {
		expected := Sign(fields, a.secret)
		return hmac.Equal([]byte(strings.ToLower(sign)), []byte(expected))
	}

	if a.requireSignature {
		return false
	}
	key := fields[FieldKey]
	return key != "" && subtle.ConstantTimeCompare([]byte(key), []byte(a.secret)) == 1
}
