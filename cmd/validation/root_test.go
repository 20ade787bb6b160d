// SPDX-License-Identifier: MPL-2.0

package cmd

import "testing"

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	tests := []struct {
		name                   string
		version, commit, built string
		want                   string
	}{
		{
			name:    "ldflags version",
			version: "v1.2.3", commit: "abc1234", built: "2025-06-15T10:00:00Z",
			want: "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)",
		},
		{
			name:    "dev build",
			version: "dev", commit: "unknown", built: "unknown",
			want: "dev (built from source)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
			t.Cleanup(func() {
				Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
			})

			Version, Commit, BuildDate = tt.version, tt.commit, tt.built
			if got := getVersionString(); got != tt.want {
				t.Errorf("getVersionString() = %q, want %q", got, tt.want)
			}
		})
	}
}
