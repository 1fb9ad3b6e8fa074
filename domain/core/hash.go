package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// Short returns the first 12 hex characters, enough for URLs and log lines.
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// RunKey identifies one pipeline invocation: identical keys yield identical result tables.
type RunKey Hash

func (k RunKey) String() string { return Hash(k).String() }

// Short returns the abbreviated key used in log lines.
func (k RunKey) Short() string { return Hash(k).Short() }

// ComputeRunKey hashes the identifying parameters of a run. Parts are length-prefixed so
// that ("ab", "c") and ("a", "bc") never collide.
func ComputeRunKey(parts ...string) RunKey {
	var data strings.Builder
	for _, part := range parts {
		data.WriteString(strconv.Itoa(len(part)))
		data.WriteByte(':')
		data.WriteString(part)
		data.WriteByte(';')
	}
	return RunKey(NewHash([]byte(data.String())))
}
