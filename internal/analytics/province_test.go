package analytics

import "testing"

func TestResolveProvince(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"เชียงใหม่", "Chiang Mai"},
		{"จังหวัดชลบุรี", "Chon Buri"},
		{"Hat Yai, Songkhla", "Songkhla"},
		{"Mueang, เชียงราย", "Chiang Rai"},
		{"bkk", "Bangkok"},
		{"BKK", "Bangkok"},
		{"Bangkok", "Bangkok"},
		{"chonburi", "Chon Buri"},
		{"Chon-Buri", "Chon Buri"},
		{"CHON BURI", "Chon Buri"},
		{"korat", "Nakhon Ratchasima"},
		{"PakKretNonthaburi", "Nonthaburi"},
		{"phra nakhon si ayutthaya", "Phra Nakhon Si Ayutthaya"},
		{"ayutthaya", "Phra Nakhon Si Ayutthaya"},
		{"Narnia", ""},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := ResolveProvince(tt.input); got != tt.want {
			t.Errorf("ResolveProvince(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestProvinceTableCovers77Provinces(t *testing.T) {
	if len(thaiProvinces) != 77 {
		t.Errorf("thai province table has %d entries, want 77", len(thaiProvinces))
	}
	for th, en := range thaiProvinces {
		if got := ResolveProvince(th); got != en {
			t.Errorf("ResolveProvince(%q) = %q, want %q", th, got, en)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Chon-Buri", "chonburi"},
		{"CHON BURI", "chonburi"},
		{"Chiang_Mai (north)", "chiangmainorth"},
		{"café", "cafe"},
	}
	for _, tt := range tests {
		if got := normalizeKey(tt.input); got != tt.want {
			t.Errorf("normalizeKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
