package engine

import (
	"golang.org/x/text/cases"
)

// fold is the single case-insensitive identity used for lookup, cycle
// detection, and dedup throughout the engine. Unicode case folding (rather
// than strings.ToLower) handles non-ASCII target names correctly.
var foldCaser = cases.Fold()

func fold(name string) string {
	return foldCaser.String(name)
}
