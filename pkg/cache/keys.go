package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// DomainKey identifies an extracted domain boundary by its source and
// extraction parameters.
func DomainKey(source string, zmin, zmax *float64, chunkSize, overlap int) string {
	return hashKey("domain", source, zmin, zmax, chunkSize, overlap)
}

// FieldKey identifies a graded size field by its source, bounds and the
// ordered constraint list. Constraint order does not change the field,
// but keying on it keeps the hash simple and only costs a rebuild when
// callers reorder.
func FieldKey(source string, hmin, hmax *float64, constraints ...any) string {
	parts := append([]any{source, hmin, hmax}, constraints...)
	return hashKey("hfun", parts...)
}
