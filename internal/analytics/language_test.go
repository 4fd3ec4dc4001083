package analytics

import "testing"

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"th-TH", "th-TH"},
		{"TH-th", "th-TH"},
		{"en-US", "en-US"},
		{"en_AU", "en-US"},
		{"jp", "ja-JP"},
		{"ja", "ja-JP"},
		{"kr", "ko-KR"},
		{"zh-CN", "zh-CN"},
		// Unknown locales pass through verbatim so they stay visible in the
		// browser-language distribution.
		{"fr-FR", "fr-FR"},
		{"xx", "xx"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeLanguage(tt.input); got != tt.want {
			t.Errorf("NormalizeLanguage(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
