package config

import "testing"

func TestParseBool(t *testing.T) {
	cases := []struct {
		name string
		val  string
		def  bool
		want bool
	}{
		{"unset uses default", "", true, true},
		{"one is true", "1", false, true},
		{"true is true", "true", false, true},
		{"zero is false", "0", true, false},
		{"garbage uses default", "yeah", false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.val != "" {
				t.Setenv("TEST_FLAG", tc.val)
			}
			if got := ParseBool("TEST_FLAG", tc.def); got != tc.want {
				t.Fatalf("ParseBool(%q, %v) = %v, want %v", tc.val, tc.def, got, tc.want)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("Env = %q, want development", cfg.Env)
	}
}
