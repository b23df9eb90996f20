package orin

import (
	"regexp"
	"strings"
)

// Intent is a coarse classification of what the user wants from a turn.
type Intent string

const (
	IntentCommand    Intent = "COMMAND"
	IntentQuery      Intent = "QUERY"
	IntentChat       Intent = "CHAT"
	IntentAnalysis   Intent = "ANALYSIS"
	IntentNavigation Intent = "NAVIGATION"
	IntentUnknown    Intent = "UNKNOWN"
)

// Sentiment is the detected tone of the user input.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNegative Sentiment = "NEGATIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
	SentimentUrgent   Sentiment = "URGENT"
)

// RedactionMarker replaces the normalized text of any input that trips the
// safety gate. Downstream consumers never see the original content.
const RedactionMarker = "[REDACTED_MALICIOUS_CONTENT]"

// ClassifiedInput is the immutable result of classifying one user turn.
type ClassifiedInput struct {
	OriginalText   string
	NormalizedText string
	Intent         Intent
	Sentiment      Sentiment
	Confidence     float64
	Safe           bool
}

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	disallowedRune = regexp.MustCompile(`[^\w\s?.,!@#$%^&*()_+\-=\[\]{};':"\\|<>/]`)

	commandPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(turn|switch|set|change|enable|disable|toggle|activate|deactivate|open|close|start|stop)`),
		regexp.MustCompile(`(?i)system|mode|settings|config`),
		regexp.MustCompile(`(?i)volume|brightness|wifi|bluetooth`),
	}

	queryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(what|who|where|when|why|how|define|explain|search|find)`),
		regexp.MustCompile(`\?$`),
	}

	urgentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)alert|emergency|critical|error|fail|immediately|now|quick`),
		regexp.MustCompile(`!{2,}`),
	}

	positivePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)good|great|awesome|thanks|thank you|excellent|perfect|love|like`),
	}

	negativePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)bad|terrible|hate|suck|stupid|wrong|fail|error|bug`),
		regexp.MustCompile(`(?i)not working`),
	}

	scriptMarkup = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
)

// NormalizeText trims the input, collapses whitespace runs to single spaces
// and strips characters outside the permitted alphanumeric/punctuation set.
func NormalizeText(text string) string {
	out := strings.TrimSpace(text)
	out = whitespaceRuns.ReplaceAllString(out, " ")
	return disallowedRune.ReplaceAllString(out, "")
}

func matchAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func detectIntent(text string, hasAttachments bool) Intent {
	if hasAttachments {
		return IntentAnalysis
	}
	if matchAny(commandPatterns, text) {
		return IntentCommand
	}
	if matchAny(queryPatterns, text) {
		return IntentQuery
	}
	return IntentChat
}

func detectSentiment(text string) Sentiment {
	// Urgency wins over everything else.
	if matchAny(urgentPatterns, text) {
		return SentimentUrgent
	}
	if matchAny(positivePatterns, text) {
		return SentimentPositive
	}
	if matchAny(negativePatterns, text) {
		return SentimentNegative
	}
	return SentimentNeutral
}

// checkSafety is a hygiene filter, not a content-policy filter. It rejects
// only embedded executable markup.
func checkSafety(text string) bool {
	return !scriptMarkup.MatchString(text)
}

// Classify normalizes raw user text and derives intent, sentiment and the
// safety flag. It is a pure function of its inputs and the static lexicons.
func Classify(rawText string, hasAttachments bool) ClassifiedInput {
	normalized := NormalizeText(rawText)
	intent := detectIntent(normalized, hasAttachments)
	sentiment := detectSentiment(normalized)
	safe := checkSafety(normalized)

	if !safe {
		normalized = RedactionMarker
	}

	return ClassifiedInput{
		OriginalText:   rawText,
		NormalizedText: normalized,
		Intent:         intent,
		Sentiment:      sentiment,
		Confidence:     0.95,
		Safe:           safe,
	}
}
