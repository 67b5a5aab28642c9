package components

import (
	"regexp"
	"strconv"

	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

// Defaults applied when a Policy leaves a limit unset.
const (
	DefaultOptionCap   = 5
	DefaultOptionCount = 3
	DefaultRatingCap   = 10
)

// Policy controls the option limits for choice fields.
type Policy struct {
	// OptionCap is the maximum number of options a choice field may hold.
	OptionCap int `json:"optionCap" yaml:"option_cap"`
	// DefaultOptionCount is how many options a new choice field starts with.
	DefaultOptionCount int `json:"defaultOptionCount" yaml:"default_option_count"`
	// RatingCap is the largest star count a rating field may hold. It never
	// exceeds widgets.MaxRatingStars.
	RatingCap int `json:"ratingCap" yaml:"rating_cap"`
}

// DefaultPolicy returns the stock limits.
func DefaultPolicy() Policy {
	return Policy{OptionCap: DefaultOptionCap, DefaultOptionCount: DefaultOptionCount, RatingCap: DefaultRatingCap}
}

// Normalize fills unset limits and keeps the starting count within the cap.
func (p Policy) Normalize() Policy {
	if p.OptionCap <= 0 {
		p.OptionCap = DefaultOptionCap
	}
	if p.DefaultOptionCount <= 0 {
		p.DefaultOptionCount = DefaultOptionCount
	}
	if p.DefaultOptionCount > p.OptionCap {
		p.DefaultOptionCount = p.OptionCap
	}
	if p.RatingCap <= 0 {
		p.RatingCap = DefaultRatingCap
	}
	p.RatingCap = min(p.RatingCap, widgets.MaxRatingStars)
	return p
}

var generatedOption = regexp.MustCompile(`^Option \d+$`)

// OptionLabel returns the generated label for the n-th (1-based) option.
func OptionLabel(n int) string {
	return "Option " + strconv.Itoa(n)
}

// IsGeneratedOption reports whether text looks like a generated option label
// ("Option 3"). Only generated labels are renumbered after a removal.
func IsGeneratedOption(text string) bool {
	return generatedOption.MatchString(text)
}

// GeneratedOptions returns n generated option labels.
func GeneratedOptions(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = OptionLabel(i + 1)
	}
	return out
}
