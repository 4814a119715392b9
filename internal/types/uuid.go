package types

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	UUID_PREFIX_REQUEST = "req"
	UUID_PREFIX_ACCOUNT = "acct"
)

// GenerateUUID returns a lowercase ULID, time ordered and URL safe.
func GenerateUUID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// GenerateUUIDWithPrefix returns a prefixed ULID, ex "req_01HNA..."
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}
