package core

import (
	"crypto/sha256"
	"encoding/hex"
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

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 12 hex characters, enough for logs and cache keys
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// RegistryVersion identifies the content of a loaded dataset registry
type RegistryVersion Hash

func NewRegistryVersion(data []byte) RegistryVersion { return RegistryVersion(NewHash(data)) }
func (v RegistryVersion) String() string             { return Hash(v).String() }
func (v RegistryVersion) Short() string              { return Hash(v).Short() }
