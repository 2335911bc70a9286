package catalog

import (
	"sort"
	"strconv"
	"strings"
)

// CompareVersions compares two version strings segment by segment, so that
// "1.10" sorts above "1.9" and "2.0" above "1.99". Segments are split on
// dots and dashes; numeric segments compare numerically, anything else
// lexicographically. Purely numeric segments sort above qualifiers of the
// same position ("1.0" > "1.0-RC1" is not guaranteed; ordering only needs
// to be consistent, not SemVer-exact).
func CompareVersions(a, b string) int {
	as, bs := splitVersion(a), splitVersion(b)
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := compareSegment(as[i], bs[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	return 0
}

func splitVersion(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool {
		return r == '.' || r == '-' || r == '_'
	})
}

func compareSegment(a, b string) int {
	an, aerr := strconv.Atoi(a)
	bn, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	}
	// Numeric segments sort above non-numeric ones.
	if aerr == nil {
		return 1
	}
	if berr == nil {
		return -1
	}
	return strings.Compare(a, b)
}

// SortVersionsDesc orders version records newest-first.
func SortVersionsDesc(records []VersionRecord) {
	sort.Slice(records, func(i, j int) bool {
		return CompareVersions(records[i].Version, records[j].Version) > 0
	})
}
