// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFile_Section(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
[Other]
unrelated = "kept"

[Validations]
image = "centos:stream9"
uid = 1001
debug = true
volumes = "/src:/dst:ro,z,/data:/data"
extra_pkgs = "vim,git"
validations = ""
`)

	layer, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if got := layer[KeyImage]; got != "centos:stream9" {
		t.Errorf("image = %v", got)
	}
	if got := layer[KeyDebug]; got != true {
		t.Errorf("debug = %v", got)
	}
	volumes, _ := layer[KeyVolumes].([]string)
	if len(volumes) != 2 || volumes[0] != "/src:/dst:ro,z" || volumes[1] != "/data:/data" {
		t.Errorf("volumes = %#v", volumes)
	}
	pkgs, _ := layer[KeyExtraPkgs].([]string)
	if len(pkgs) != 2 || pkgs[0] != "vim" || pkgs[1] != "git" {
		t.Errorf("extra_pkgs = %#v", pkgs)
	}
	if _, ok := layer[KeyBranch]; ok {
		t.Error("keys absent from the file must be absent from the layer")
	}

	p, err := Resolve(testDefaults(), layer, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if p.UID != 1001 {
		t.Errorf("uid = %d, want 1001", p.UID)
	}
}

func TestLoadFile_NoSection(t *testing.T) {
	t.Parallel()

	layer, err := LoadFile(writeConfig(t, "[Other]\nkey = 1\n"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(layer) != 0 {
		t.Errorf("expected empty layer, got %v", layer)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{name: "invalid toml", content: "[Validations\nimage = ", contains: "parse config"},
		{name: "non-integer uid", content: "[Validations]\nuid = \"abc\"\n", contains: "uid"},
		{name: "negative uid", content: "[Validations]\nuid = -3\n", contains: "uid"},
		{name: "unknown key", content: "[Validations]\nimgae = \"x\"\n", contains: "imgae"},
		{name: "unknown engine", content: "[Validations]\ncontainer = \"lxc\"\n", contains: "container"},
		{name: "list given as array", content: "[Validations]\nvolumes = [\"/a:/a\"]\n", contains: "volumes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeConfig(t, tt.content)
			_, err := LoadFile(path)
			if err == nil {
				t.Fatal("expected error")
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %T: %v", err, err)
			}
			if cfgErr.Path != path {
				t.Errorf("ConfigError.Path = %q, want %q", cfgErr.Path, path)
			}
			if !errors.Is(err, ErrConfig) {
				t.Error("expected errors.Is(err, ErrConfig)")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q should mention %q", err.Error(), tt.contains)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, ErrConfig) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ConfigError wrapping ErrNotExist, got %v", err)
	}
}

func TestSave_RoundTripLists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		key   string
		value []string
	}{
		{name: "empty list stays empty", key: KeyVolumes, value: []string{}},
		{name: "single volume with options", key: KeyVolumes, value: []string{"/src:/dst:ro,z"}},
		{name: "several volumes", key: KeyVolumes, value: []string{"/a:/a:z", "/b:/b", "/c:/c:ro,Z"}},
		{name: "packages", key: KeyExtraPkgs, value: []string{"vim", "git", "tmux"}},
		{name: "no packages", key: KeyExtraPkgs, value: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), ConfigFileName)
			if err := Save(path, Layer{tt.key: tt.value}); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			layer, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile() error = %v", err)
			}
			got, ok := layer[tt.key].([]string)
			if !ok {
				t.Fatalf("%s = %#v, want []string", tt.key, layer[tt.key])
			}
			if len(got) != len(tt.value) {
				t.Fatalf("%s = %#v, want %#v", tt.key, got, tt.value)
			}
			for i := range got {
				if got[i] != tt.value[i] {
					t.Errorf("%s[%d] = %q, want %q", tt.key, i, got[i], tt.value[i])
				}
			}
		})
	}
}

func TestLoadFile_PackagesSeparatedBySpaces(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "[Validations]\nextra_pkgs = \"vim tmux,htop\"\n")
	layer, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	got, _ := layer[KeyExtraPkgs].([]string)
	if want := []string{"vim", "tmux", "htop"}; !slices.Equal(got, want) {
		t.Errorf("extra_pkgs = %#v, want %#v", got, want)
	}
}

func TestExport_OmitsActionKeys(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ConfigFileName)
	cli := Layer{KeyRun: true, KeyBuild: true, KeyList: true, KeyInventoryPing: true, KeyBranch: "stable"}
	if err := Export(path, testDefaults(), cli); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	layer, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	for _, key := range ActionKeys {
		if _, ok := layer[key]; ok {
			t.Errorf("%s must not be exported, got %v", key, layer[key])
		}
	}
	if layer[KeyBranch] != "stable" {
		t.Errorf("branch = %v, want stable", layer[KeyBranch])
	}

	p, err := Resolve(testDefaults(), layer, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := p.Action(); got != ActionNone {
		t.Errorf("exported file selects action %q, want none", got)
	}
}

func TestSave_PartialOverwrite(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
[Other]
keep = "me"

[Validations]
image = "centos:stream9"
branch = "stable"
`)

	if err := Save(path, Layer{KeyBranch: "main", KeyUID: 42}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	layer, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if layer[KeyImage] != "centos:stream9" {
		t.Errorf("untouched key lost: image = %v", layer[KeyImage])
	}
	if layer[KeyBranch] != "main" {
		t.Errorf("branch = %v, want main", layer[KeyBranch])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "keep") {
		t.Errorf("other tables must be preserved, got:\n%s", data)
	}
}

func TestSave_RejectsUnknownKey(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ConfigFileName)
	err := Save(path, Layer{"bogus": "x"})
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("nothing should be written for an invalid layer")
	}
}

func TestExport_WritesPreMergeLayer(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.toml")
	if err := os.WriteFile(existing, []byte("[Validations]\nimage = \"from-file\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fileLayer, err := LoadFile(existing)
	if err != nil {
		t.Fatal(err)
	}

	cli := Layer{KeyUID: 5, KeyVolumes: []string{"/x:/x:z"}}
	exported := filepath.Join(dir, "exported", ConfigFileName)
	if err := Export(exported, testDefaults(), cli); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	layer, err := LoadFile(exported)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if want := len(Keys()) - len(ActionKeys); len(layer) != want {
		t.Errorf("exported %d keys, want %d", len(layer), want)
	}
	if layer[KeyImage] != DefaultImage {
		t.Errorf("image = %v, want default %q (file values are not exported)", layer[KeyImage], DefaultImage)
	}

	// The exported file read back as a file layer reproduces the defaults
	// overlaid with the explicit flags, regardless of the other file.
	p, err := Resolve(testDefaults(), layer, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if p.UID != 5 || len(p.Volumes) != 1 || p.Volumes[0] != "/x:/x:z" {
		t.Errorf("resolved = uid %d volumes %v", p.UID, p.Volumes)
	}
	if fileLayer[KeyImage] != "from-file" {
		t.Errorf("source file layer changed: %v", fileLayer)
	}
}
