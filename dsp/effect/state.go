package effect

import (
	"fmt"
	"strings"
)

// State is the processing stage an Effect is in.
type State int

const (
	StateIdle State = iota
	StateAnalyzing
	StateTransforming
	StateSynthesizing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnalyzing:
		return "analyzing"
	case StateTransforming:
		return "transforming"
	case StateSynthesizing:
		return "synthesizing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ShortfallPolicy decides how a synthesised block shorter than its input is
// extended. Longer results are always truncated.
type ShortfallPolicy int

const (
	// ShortfallZeroPad appends silence.
	ShortfallZeroPad ShortfallPolicy = iota
	// ShortfallHoldLast repeats the last synthesised sample.
	ShortfallHoldLast
)

// String returns the policy name as accepted by ParseShortfallPolicy.
func (p ShortfallPolicy) String() string {
	switch p {
	case ShortfallZeroPad:
		return "zero"
	case ShortfallHoldLast:
		return "hold"
	default:
		return fmt.Sprintf("ShortfallPolicy(%d)", int(p))
	}
}

// Valid reports whether p is a known policy.
func (p ShortfallPolicy) Valid() bool {
	return p == ShortfallZeroPad || p == ShortfallHoldLast
}

// ParseShortfallPolicy parses "zero" or "hold" (case-insensitive).
func ParseShortfallPolicy(s string) (ShortfallPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zero", "zeropad", "pad":
		return ShortfallZeroPad, nil
	case "hold", "holdlast":
		return ShortfallHoldLast, nil
	default:
		return 0, fmt.Errorf("effect: unknown shortfall policy %q", s)
	}
}
