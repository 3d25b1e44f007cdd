package feature

import (
	"regexp"
	"strings"
)

// Word characters here must cover Unicode letters and digits: captions mix
// scripts, and an ASCII-only class would truncate tags like #café.
var hashtagPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+`)

// Hashtags extracts hash-prefixed tokens from text and joins them with single
// spaces. Returns the empty string when text carries no hashtags.
func Hashtags(text string) string {
	return strings.Join(hashtagPattern.FindAllString(text, -1), " ")
}
