// Package answer extracts a model's chosen letter from free-text output.
package answer

import (
	"regexp"
	"strings"
)

// NoAnswer is the sentinel returned when no valid letter can be extracted.
// It propagates downstream as "invalid comparison" and is excluded from
// follow-rate denominators.
const NoAnswer = "NA"

var (
	taggedPattern = regexp.MustCompile(`(?i)<answer>\s*([A-D])\s*</answer>`)
	barePattern   = regexp.MustCompile(`(?i)\b([A-D])\b`)
)

// Extract returns the letter (A-D) the model chose in response.
//
// The tagged form <answer>X</answer> is authoritative; when absent, the
// last standalone A-D token is taken as a best-effort fallback, since
// final answers tend to appear last. Both tiers are case-insensitive and
// the result is uppercased. Letters outside A-D are never valid, including
// inside the tags.
func Extract(response string) string {
	if m := taggedPattern.FindStringSubmatch(response); m != nil {
		return strings.ToUpper(m[1])
	}

	matches := barePattern.FindAllStringSubmatch(response, -1)
	if len(matches) > 0 {
		return strings.ToUpper(matches[len(matches)-1][1])
	}

	return NoAnswer
}
