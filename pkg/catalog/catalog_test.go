package catalog

import (
	"reflect"
	"testing"
)

func TestArtifactKeyString(t *testing.T) {
	key := ArtifactKey{GroupID: "io.packdex.libs", ArtifactID: "core"}
	if got := key.String(); got != "io.packdex.libs:core" {
		t.Errorf("String() = %q, want %q", got, "io.packdex.libs:core")
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"equal", "1.0.0", "1.0.0", 0},
		{"patch greater", "1.0.1", "1.0.0", 1},
		{"minor greater", "1.1", "1.0", 1},
		{"double digit beats single", "1.10", "1.9", 1},
		{"major beats large minor", "2.0", "1.99", 1},
		{"longer wins on shared prefix", "1.0.0", "1.0", 1},
		{"numeric beats qualifier", "1.0.1", "1.0.beta", 1},
		{"qualifiers compare lexically", "1.0-alpha", "1.0-beta", -1},
		{"dash and dot split the same", "1-2", "1.1", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sign(CompareVersions(tt.a, tt.b)); got != tt.want {
				t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := sign(CompareVersions(tt.b, tt.a)); got != -tt.want {
				t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.b, tt.a, got, -tt.want)
			}
		})
	}
}

func TestSortVersionsDesc(t *testing.T) {
	records := []VersionRecord{
		{Version: "1.0"},
		{Version: "2.0"},
		{Version: "1.9"},
		{Version: "1.10"},
	}
	SortVersionsDesc(records)

	got := make([]string, len(records))
	for i, r := range records {
		got[i] = r.Version
	}
	want := []string{"2.0", "1.10", "1.9", "1.0"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortVersionsDesc order = %v, want %v", got, want)
	}
}

func TestCatalogSortIsCaseInsensitive(t *testing.T) {
	c := Catalog{
		{Name: "Zeta"},
		{Name: "alpha"},
		{Name: "Beta"},
	}
	c.Sort()

	got := []string{c[0].Name, c[1].Name, c[2].Name}
	want := []string{"alpha", "Beta", "Zeta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sort order = %v, want %v", got, want)
	}
}

func TestCatalogSortTieBreaksOnRawName(t *testing.T) {
	c := Catalog{
		{Name: "core", Key: ArtifactKey{ArtifactID: "a"}},
		{Name: "Core", Key: ArtifactKey{ArtifactID: "b"}},
	}
	c.Sort()

	// "Core" < "core" in raw byte order.
	if c[0].Name != "Core" || c[1].Name != "core" {
		t.Errorf("tie-break order = [%q, %q], want [Core, core]", c[0].Name, c[1].Name)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
