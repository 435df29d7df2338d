package analysis

import (
	"path/filepath"
	"testing"
)

func TestUnitResolvePath(t *testing.T) {
	abs := filepath.Join(string(filepath.Separator), "work", "src", "Profile.cs")
	tests := []struct {
		name string
		unit *Unit
		file string
		want string
	}{
		{"nil unit passes through", nil, "Profile.cs", "Profile.cs"},
		{"no root passes through", &Unit{ID: "billing"}, "Profile.cs", "Profile.cs"},
		{"empty file passes through", &Unit{Root: "src"}, "", ""},
		{"absolute file passes through", &Unit{Root: "src"}, abs, abs},
		{"relative file joins root", &Unit{Root: filepath.Join("work", "src")}, "Profiles/Customer.cs",
			filepath.Join("work", "src", "Profiles", "Customer.cs")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.unit.ResolvePath(tt.file); got != tt.want {
				t.Errorf("ResolvePath(%q) = %q, want %q", tt.file, got, tt.want)
			}
		})
	}
}
