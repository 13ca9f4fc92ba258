package brand

import "testing"

func TestDisplayName(t *testing.T) {
	tests := []struct {
		slug string
		want string
	}{
		{"samsung", "Samsung"},
		{"lg", "LG"},
		{"samsung-frame", "Samsung Frame"},
		{"tcl_roku", "TCL Roku"},
		{"  vizio  ", "Vizio"},
		{"", "Unknown"},
		{"---", "Unknown"},
	}
	for _, tc := range tests {
		if got := DisplayName(tc.slug); got != tc.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tc.slug, got, tc.want)
		}
	}
}
