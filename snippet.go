package treedex

import "strings"

const defaultSnippetLen = 180

// BuildSnippet extracts a density-window snippet from a section's raw
// body (§4.7): the window of W words that contains the most match
// positions wins, ties broken by the earliest window. matchPositions
// are offsets into the section's own token stream (title tokens occupy
// the low offsets, as in §4.2); callers pass them already reduced by the
// title-token count. They are used here as indexes into the body's
// whitespace-separated words, which coincide with token offsets only
// when every such word yields exactly one token.
func BuildSnippet(title, body string, matchPositions []int, maxLen int) string {
	if maxLen <= 0 {
		maxLen = defaultSnippetLen
	}

	words := strings.Fields(body)
	if len(words) == 0 {
		return truncate(title, maxLen)
	}

	if len(matchPositions) == 0 {
		return truncate(body, maxLen)
	}

	window := maxLen / 6
	if window < 10 {
		window = 10
	}
	if window > len(words) {
		window = len(words)
	}

	matchSet := make(map[int]struct{}, len(matchPositions))
	for _, p := range matchPositions {
		if p >= 0 && p < len(words) {
			matchSet[p] = struct{}{}
		}
	}

	bestStart := 0
	bestCount := -1
	for start := 0; start+window <= len(words) || start == 0; start++ {
		end := start + window
		if end > len(words) {
			end = len(words)
		}
		count := 0
		for i := start; i < end; i++ {
			if _, ok := matchSet[i]; ok {
				count++
			}
		}
		if count > bestCount {
			bestCount = count
			bestStart = start
		}
		if end == len(words) {
			break
		}
	}

	end := bestStart + window
	if end > len(words) {
		end = len(words)
	}

	text := strings.Join(words[bestStart:end], " ")
	text = truncateAtWord(text, maxLen)

	var b strings.Builder
	if bestStart > 0 {
		b.WriteString("…")
	}
	b.WriteString(text)
	if end < len(words) {
		b.WriteString("…")
	}
	return b.String()
}

// truncate returns the first maxLen characters of s verbatim, appending
// an ellipsis when s was actually cut. Unlike the windowed-match path,
// this fallback (no match positions to center a window on) is a hard
// character-count cut per §4.7, not a word-boundary trim.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "…"
}

// truncateAtWord trims s to at most maxLen characters, cutting at the
// last whitespace boundary past 70% of maxLen so words aren't split
// mid-token.
func truncateAtWord(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	cut := s[:maxLen]
	minCut := int(float64(maxLen) * 0.7)

	lastSpace := strings.LastIndex(cut, " ")
	if lastSpace >= minCut {
		return cut[:lastSpace]
	}
	return cut
}
