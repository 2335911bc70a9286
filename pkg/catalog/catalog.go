// Package catalog defines the domain model for the packdex artifact catalog:
// package types, artifact identities, per-version records, and the assembled
// catalog itself.
//
// A Catalog is built once per refresh cycle and is immutable afterwards; a
// newer build supersedes the previous one, it never mutates it.
package catalog

import (
	"sort"
	"strings"
)

// PackageType identifies one ecosystem served by the catalog. The set of
// types is fixed at process start; each carries the query fragment used
// against the upstream search service.
type PackageType struct {
	Name  string `json:"name" toml:"name"`
	Query string `json:"query" toml:"query"`
}

// DefaultTypes is the built-in set of package types. Deployments can
// override it via configuration.
var DefaultTypes = []PackageType{
	{Name: "libraries", Query: `g:"io.packdex.libs"`},
	{Name: "plugins", Query: `g:"io.packdex.plugins"`},
	{Name: "archetypes", Query: `g:"io.packdex.archetypes"`},
}

// ArtifactKey is the unique identity of a package within one type.
type ArtifactKey struct {
	GroupID    string `json:"group_id" bson:"group_id"`
	ArtifactID string `json:"artifact_id" bson:"artifact_id"`
}

// String returns the coordinate form "groupId:artifactId".
func (k ArtifactKey) String() string {
	return k.GroupID + ":" + k.ArtifactID
}

// VersionRecord holds the enriched data for one published version.
// A FileCount of 0 is also the recorded-degraded state when enrichment
// failed for that version; it is not distinguished from a legitimately
// empty version.
type VersionRecord struct {
	Version   string `json:"version" bson:"version"`
	FileCount int    `json:"file_count" bson:"file_count"`
}

// Package is one catalog entry: an artifact with its resolved display
// name, source URL, and versions sorted newest-first.
type Package struct {
	Type     string          `json:"type" bson:"type"`
	Key      ArtifactKey     `json:"key" bson:"key"`
	Name     string          `json:"name" bson:"name"`
	URL      string          `json:"url" bson:"url"`
	Versions []VersionRecord `json:"versions" bson:"versions"`
}

// Catalog is an ordered sequence of packages, case-insensitively sorted
// by display name.
type Catalog []Package

// Sort orders the catalog case-insensitively by name, with the raw name
// as tie-break so the order is total.
func (c Catalog) Sort() {
	sort.Slice(c, func(i, j int) bool {
		a, b := strings.ToLower(c[i].Name), strings.ToLower(c[j].Name)
		if a != b {
			return a < b
		}
		return c[i].Name < c[j].Name
	})
}
