package wm

import "testing"

func TestNormalizeWindowID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare uuid", "dc80ff04-3245-4d9b-b9a8-1582640d39e1", "{dc80ff04-3245-4d9b-b9a8-1582640d39e1}"},
		{"already braced", "{dc80ff04-3245-4d9b-b9a8-1582640d39e1}", "{dc80ff04-3245-4d9b-b9a8-1582640d39e1}"},
		{"krunner decorated", "0_{dc80ff04-3245-4d9b-b9a8-1582640d39e1}", "{dc80ff04-3245-4d9b-b9a8-1582640d39e1}"},
		{"trailing noise", "{dc80ff04-3245-4d9b-b9a8-1582640d39e1} extra", "{dc80ff04-3245-4d9b-b9a8-1582640d39e1}"},
		{"no uuid", "window-7", "window-7"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeWindowID(tt.input); got != tt.want {
				t.Errorf("NormalizeWindowID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeWindowIDPicksFirstUUID(t *testing.T) {
	in := "0_{11111111-2222-3333-4444-555555555555}_{99999999-8888-7777-6666-555555555555}"
	want := "{11111111-2222-3333-4444-555555555555}"
	if got := NormalizeWindowID(in); got != want {
		t.Errorf("NormalizeWindowID(%q) = %q, want %q", in, got, want)
	}
}
