package avatar

import "testing"

func TestURL(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Team", "https://ui-avatars.com/api/?name=Team&background=random"},
		{"Go Readers", "https://ui-avatars.com/api/?name=Go+Readers&background=random"},
		{"R&D", "https://ui-avatars.com/api/?name=R%26D&background=random"},
		{"", "https://ui-avatars.com/api/?name=&background=random"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := URL(tt.name); got != tt.want {
				t.Errorf("URL(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestURL_Deterministic(t *testing.T) {
	if URL("Team") != URL("Team") {
		t.Error("expected identical URLs for identical names")
	}
}
