package id

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

// CategoryID derives the stable id for a category name: the MD5 hex digest
// of the lower-cased name. The same name always yields the same id, which is
// what makes backup re-imports idempotent. The digest matches ids already
// persisted by earlier versions, so the hash cannot change.
func CategoryID(name string) string {
	sum := md5.Sum([]byte(strings.ToLower(name)))
	return hex.EncodeToString(sum[:])
}

var (
	mu     sync.Mutex
	lastID int64
)

// NewRuleID returns a creation-timestamp-derived rule id (milliseconds since
// the Unix epoch), bumped past the previous id so that rules created within
// the same millisecond stay unique.
func NewRuleID() int64 {
	mu.Lock()
	defer mu.Unlock()

	id := time.Now().UnixMilli()
	if id <= lastID {
		id = lastID + 1
	}
	lastID = id
	return id
}
