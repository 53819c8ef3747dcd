package bitable

import "fmt"

// Paths is the deterministic set of file paths making up one table (§4.4).
// Derivation is purely lexical: it performs no filesystem access.
type Paths struct {
	Leaf       string
	LargeValue string
	Branch     [MaxBranchLevels]string
}

// BuildPaths derives the full path set for a table rooted at base.
func BuildPaths(base string) Paths {
	paths := Paths{
		Leaf:       base,
		LargeValue: base + ".lvs",
	}

	for level := 0; level < MaxBranchLevels; level++ {
		paths.Branch[level] = fmt.Sprintf("%s.%03d", base, level)
	}

	return paths
}
