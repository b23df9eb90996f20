package orin

import "regexp"

// ReasoningMode selects how much machinery a turn gets: SHALLOW answers
// directly, DEEP asks the backend for a thought block and possibly a plan.
type ReasoningMode string

const (
	ModeShallow ReasoningMode = "SHALLOW"
	ModeDeep    ReasoningMode = "DEEP"
)

// deepLengthThreshold is the normalized-text length beyond which a request is
// considered complex enough for deep reasoning.
const deepLengthThreshold = 50

var analyticalVerbs = regexp.MustCompile(`(?i)analyze|plan|calculate|generate|solve`)

// SelectMode decides the reasoning depth for a classified input. It is
// deterministic and has no failure mode.
func SelectMode(in ClassifiedInput) ReasoningMode {
	if in.Intent == IntentAnalysis || in.Intent == IntentCommand {
		return ModeDeep
	}
	if len(in.NormalizedText) > deepLengthThreshold || analyticalVerbs.MatchString(in.NormalizedText) {
		return ModeDeep
	}
	return ModeShallow
}
