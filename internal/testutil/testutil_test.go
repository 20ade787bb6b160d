// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestSetHomeDir(t *testing.T) {
	envVar := "HOME"
	if runtime.GOOS == "windows" {
		envVar = "USERPROFILE"
	}
	original := os.Getenv(envVar)
	tmpDir := t.TempDir()

	t.Run("subtest", func(t *testing.T) {
		t.Cleanup(SetHomeDir(t, tmpDir))

		if got := os.Getenv(envVar); got != tmpDir {
			t.Errorf("%s = %q, want %q", envVar, got, tmpDir)
		}
	})

	if got := os.Getenv(envVar); got != original {
		t.Errorf("after cleanup %s = %q, want %q", envVar, got, original)
	}
}

func TestMustWriteFile(t *testing.T) {
	t.Parallel()

	path := MustWriteFile(t, filepath.Join(t.TempDir(), "a", "b", "validation.toml"), "[Validations]\n")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[Validations]\n" {
		t.Errorf("content = %q", data)
	}
}

func TestContainerParallelism(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{value: "5", want: 5},
		{value: "0", want: min(runtime.GOMAXPROCS(0), 2)},
		{value: "many", want: min(runtime.GOMAXPROCS(0), 2)},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Cleanup(MustSetenv(t, ContainerParallelEnv, tt.value))
			if got := containerParallelism(); got != tt.want {
				t.Errorf("containerParallelism() = %d, want %d", got, tt.want)
			}
		})
	}
}
