package version

import "testing"

func TestGetFullVersion(t *testing.T) {
	if got := GetFullVersion(); got != "dev" {
		t.Errorf("GetFullVersion() = %q, want dev", got)
	}

	Version, GitCommit, BuildDate = "1.2.0", "abc123", "2026-01-02"
	defer func() { Version, GitCommit, BuildDate = "dev", "unknown", "unknown" }()

	if got := GetFullVersion(); got != "1.2.0 (abc123, 2026-01-02)" {
		t.Errorf("GetFullVersion() = %q", got)
	}
	if got := GetVersion(); got != "1.2.0" {
		t.Errorf("GetVersion() = %q", got)
	}
}
