package flow

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// SignatureParam is the request/webhook parameter Flow carries the
// HMAC signature in.
const SignatureParam = "s"

// SignParams computes the Flow request signature: parameters sorted by
// key, concatenated as key+value, HMAC-SHA256 with the secret key, hex
// encoded. The same scheme signs outbound API calls and inbound webhooks.
func SignParams(params map[string]string, secretKey string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(params[k])
	}

	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(b.String()))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a received signature against the computed one in
// constant time. The signature parameter itself must not be in params.
func VerifySignature(params map[string]string, secretKey, received string) bool {
	expected := SignParams(params, secretKey)
	return hmac.Equal([]byte(expected), []byte(received))
}
