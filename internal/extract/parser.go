package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var (
	jsonFenceRe   = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	genericFence  = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
	jsonObjectRe  = regexp.MustCompile(`(?s)\{.*?\}`)
)

// ResponseParser extracts a JSON object from unstructured model output.
type ResponseParser struct {
	logger *zap.Logger
}

// NewResponseParser creates a response parser.
func NewResponseParser(logger *zap.Logger) *ResponseParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseParser{logger: logger}
}

// Parse runs the strategy cascade over raw model output and returns the
// decoded object, or nil when no strategy finds valid JSON. The caller
// is expected to fall back to regex extraction on the pre-model text.
func (p *ResponseParser) Parse(response string) map[string]any {
	trimmed := strings.TrimSpace(response)
	if trimmed == "" {
		return nil
	}

	// Strategy 1: the whole response is the object
	if strings.HasPrefix(trimmed, "{") {
		if obj := decodeObject(trimmed); obj != nil {
			return obj
		}
	}

	// Strategy 2: fenced code blocks, language-tagged first
	for _, re := range []*regexp.Regexp{jsonFenceRe, genericFence} {
		for _, m := range re.FindAllStringSubmatch(trimmed, -1) {
			inner := strings.TrimSpace(m[1])
			if strings.HasPrefix(inner, "{") && strings.HasSuffix(inner, "}") {
				if obj := decodeObject(inner); obj != nil {
					return obj
				}
			}
		}
	}

	// Strategy 3: first decodable {...} substring anywhere in the text
	for _, m := range jsonObjectRe.FindAllString(trimmed, -1) {
		if obj := decodeObject(m); obj != nil {
			return obj
		}
	}

	p.logger.Warn("no valid JSON found in model response",
		zap.Int("response_chars", len(response)),
	)
	return nil
}

func decodeObject(s string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil
	}
	return obj
}
