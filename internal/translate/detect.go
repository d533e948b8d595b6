package translate

import "unicode"

// DetectLanguage guesses the dominant language of text by script ratio.
// Good enough for logging and source-language hints; returns "unknown"
// for empty input and defaults to "en" otherwise.
func DetectLanguage(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return "unknown"
	}

	var korean, japanese, chinese int
	for _, r := range runes {
		switch {
		case unicode.Is(unicode.Hangul, r):
			korean++
		case unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r):
			japanese++
		case unicode.Is(unicode.Han, r):
			chinese++
		}
	}

	threshold := len(runes) * 3 / 10
	switch {
	case korean > threshold:
		return "ko"
	case japanese > threshold:
		return "ja"
	case chinese > threshold:
		return "zh-CN"
	default:
		return "en"
	}
}
