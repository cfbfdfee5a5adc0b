package snapshot

import "fmt"

// DefaultZeroThreshold aborts a run once two scraped fields read zero
const DefaultZeroThreshold = 2

// Verdict is the outcome of the zero-count plausibility check
type Verdict struct {
	ZeroCount int
	Threshold int
	Zeros     []string
}

// Skip reports whether the run should stop before publishing
func (v Verdict) Skip() bool {
	return v.ZeroCount >= v.Threshold
}

func (v Verdict) String() string {
	if v.Skip() {
		return fmt.Sprintf("%d zero fields (threshold %d): page layout likely changed", v.ZeroCount, v.Threshold)
	}
	return fmt.Sprintf("%d zero fields (threshold %d)", v.ZeroCount, v.Threshold)
}

// ZeroCount counts values that are exactly zero and returns their names in order
func ZeroCount(values map[string]float64, names []string) (int, []string) {
	var zeros []string
	for _, name := range names {
		if values[name] == 0 {
			zeros = append(zeros, name)
		}
	}
	return len(zeros), zeros
}

// Validate checks the named values against threshold
func Validate(values map[string]float64, names []string, threshold int) Verdict {
	count, zeros := ZeroCount(values, names)
	return Verdict{ZeroCount: count, Threshold: threshold, Zeros: zeros}
}
