package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Key prefixes separate the cache namespaces. Catalog entries are
// ephemeral; count and descriptor entries are durable facts.
const (
	prefixCatalog    = "catalog:"
	prefixCount      = "count:"
	prefixDescriptor = "pom:"
)

// CatalogKey returns the key holding the built catalog for a package type.
func CatalogKey(typeName string) string {
	return prefixCatalog + typeName
}

// CountKey returns the key holding the file count of one artifact version.
func CountKey(groupID, artifactID, version string) string {
	return prefixCount + groupID + ":" + artifactID + ":" + version
}

// DescriptorKey returns the key holding the fetched descriptor of one
// artifact version.
func DescriptorKey(groupID, artifactID, version string) string {
	return prefixDescriptor + groupID + ":" + artifactID + ":" + version
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
