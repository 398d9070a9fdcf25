package gameloc

import (
	"strings"
	"testing"
)

func TestFullVersion(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = origVersion, origCommit })

	Version = "1.2.3"
	tests := []struct {
		commit string
		want   string
	}{
		{"unknown", "1.2.3"},
		{"", "1.2.3"},
		{"abc", "1.2.3+abc"},
		{"1a2b3c4d5e6f", "1.2.3+1a2b3c4"},
	}
	for _, tt := range tests {
		GitCommit = tt.commit
		if got := FullVersion(); got != tt.want {
			t.Errorf("FullVersion() with commit %q = %q, want %q", tt.commit, got, tt.want)
		}
	}
}

func TestUserAgent(t *testing.T) {
	if got := UserAgent(); !strings.HasPrefix(got, Name+"/") {
		t.Errorf("UserAgent() = %q", got)
	}
}
