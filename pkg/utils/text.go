package utils

import (
	"regexp"
	"strings"
)

var (
	hashtagPattern = regexp.MustCompile(`#(\w+)`)
	mentionPattern = regexp.MustCompile(`@(\w+)`)
)

// ExtractHashtags returns the lower-cased, de-duplicated tags in content,
// in order of first appearance.
func ExtractHashtags(content string) []string {
	return uniqueMatches(hashtagPattern, content, true)
}

// ExtractMentions returns the usernames mentioned in content, in order of
// first appearance.
func ExtractMentions(content string) []string {
	return uniqueMatches(mentionPattern, content, false)
}

func uniqueMatches(re *regexp.Regexp, content string, lower bool) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range re.FindAllStringSubmatch(content, -1) {
		v := m[1]
		if lower {
			v = strings.ToLower(v)
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
