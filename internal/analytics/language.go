package analytics

import "strings"

// canonicalLocales maps full locale tags (lower-cased) to the canonical set
// used by the dashboard.
var canonicalLocales = map[string]string{
	"th-th": "th-TH",
	"en-us": "en-US",
	"en-gb": "en-GB",
	"ja-jp": "ja-JP",
	"zh-cn": "zh-CN",
	"zh-tw": "zh-TW",
	"ko-kr": "ko-KR",
}

// primarySubtags maps primary language subtags, absorbing informal two-letter
// aliases like "jp".
var primarySubtags = map[string]string{
	"th": "th-TH",
	"en": "en-US",
	"ja": "ja-JP",
	"jp": "ja-JP",
	"zh": "zh-CN",
	"cn": "zh-CN",
	"ko": "ko-KR",
	"kr": "ko-KR",
}

// NormalizeLanguage maps a raw locale tag onto the canonical set. Unknown
// locales are returned verbatim so they stay visible in aggregates instead of
// collapsing into an "Unknown" bucket.
func NormalizeLanguage(raw string) string {
	tag := strings.TrimSpace(raw)
	if tag == "" {
		return raw
	}
	if canonical, ok := canonicalLocales[strings.ToLower(tag)]; ok {
		return canonical
	}
	primary := strings.ToLower(tag)
	if idx := strings.IndexAny(primary, "-_"); idx >= 0 {
		primary = primary[:idx]
	}
	if canonical, ok := primarySubtags[primary]; ok {
		return canonical
	}
	return raw
}
