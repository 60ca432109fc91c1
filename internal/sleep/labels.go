package sleep

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/RyanBlaney/sleep-spectra/pkg/actigraphy/config"
)

var titleCaser = cases.Title(language.English)

// LabelGrouper maps a scored stage to the class it is aggregated under.
// ok is false for stages that must be ignored (e.g. unscored epochs).
type LabelGrouper func(stage int) (class int, ok bool)

// TwoClassGrouper collapses stage 0 to class 0 and every positive stage to
// class 1. Negative stages are dropped.
func TwoClassGrouper(stage int) (int, bool) {
	switch {
	case stage == 0:
		return 0, true
	case stage > 0:
		return 1, true
	default:
		return 0, false
	}
}

// StageGrouper keeps every non-negative stage as its own class
func StageGrouper(stage int) (int, bool) {
	return stage, stage >= 0
}

// GrouperFor returns the grouper for a configured label scheme
func GrouperFor(scheme config.LabelScheme) (LabelGrouper, error) {
	switch scheme {
	case config.LabelSchemeTwoClass, "":
		return TwoClassGrouper, nil
	case config.LabelSchemeStages:
		return StageGrouper, nil
	default:
		return nil, fmt.Errorf("unknown label scheme %q", scheme)
	}
}

var (
	twoClassNames = map[int]string{0: "awake", 1: "asleep"}
	stageNames    = map[int]string{0: "wake", 1: "n1", 2: "n2", 3: "n3", 4: "n4", 5: "rem"}
)

// ClassName returns a display name for a class under the given scheme
func ClassName(scheme config.LabelScheme, class int) string {
	names := twoClassNames
	if scheme == config.LabelSchemeStages {
		names = stageNames
	}
	if name, ok := names[class]; ok {
		if len(name) <= 3 {
			// short stage codes (N1, REM) are upper-cased
			return cases.Upper(language.English).String(name)
		}
		return titleCaser.String(name)
	}
	return fmt.Sprintf("Class %d", class)
}
