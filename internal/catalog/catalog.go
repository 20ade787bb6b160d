// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

const (
	// PlaybookDir is the playbook directory inside a validations checkout.
	PlaybookDir = "playbooks"

	playbookPattern = PlaybookDir + "/*.{yaml,yml}"
)

// ErrPlaybook is the sentinel wrapped by PlaybookError.
var ErrPlaybook = errors.New("invalid playbook")

type (
	// Playbook is the catalog entry for one playbook file.
	Playbook struct {
		// Name is the file name without its extension.
		Name        string
		Path        string
		Hosts       []string
		Groups      []string
		Description string
	}

	// Filter selects playbooks. Group takes precedence over Host; an empty
	// filter selects everything.
	Filter struct {
		Group string
		Host  string
	}

	// PlaybookError reports a playbook that cannot be read as a list of
	// plays.
	PlaybookError struct {
		Path string
		Err  error
	}

	// Catalog reads playbooks from a filesystem.
	Catalog struct {
		fs afero.Fs
	}

	play struct {
		Hosts hostList `yaml:"hosts"`
		Vars  struct {
			Metadata struct {
				Description string   `yaml:"description"`
				Groups      []string `yaml:"groups"`
			} `yaml:"metadata"`
		} `yaml:"vars"`
	}

	// hostList accepts both "a, b" and a YAML sequence.
	hostList []string
)

// Error implements the error interface.
func (e *PlaybookError) Error() string {
	return fmt.Sprintf("playbook %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrPlaybook and the underlying cause.
func (e *PlaybookError) Unwrap() []error { return []error{ErrPlaybook, e.Err} }

// New returns a catalog reading from fs.
func New(fs afero.Fs) *Catalog {
	return &Catalog{fs: fs}
}

// List returns the playbooks under dir/playbooks that match f, sorted by
// name.
func (c *Catalog) List(dir string, f Filter) ([]Playbook, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	if isDir, err := afero.IsDir(c.fs, filepath.Join(dir, PlaybookDir)); err != nil || !isDir {
		return nil, fmt.Errorf("no %s directory in %s: %w", PlaybookDir, dir, fs.ErrNotExist)
	}

	fsys := afero.NewIOFS(afero.NewBasePathFs(c.fs, dir))
	matches, err := doublestar.Glob(fsys, playbookPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob playbooks in %s: %w", dir, err)
	}

	out := make([]Playbook, 0, len(matches))
	for _, match := range matches {
		pb, err := readPlaybook(fsys, match)
		if err != nil {
			return nil, err
		}
		if f.Matches(pb) {
			out = append(out, pb)
		}
	}

	slices.SortFunc(out, func(a, b Playbook) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// Names returns the names of playbooks.
func Names(playbooks []Playbook) []string {
	names := make([]string, 0, len(playbooks))
	for _, pb := range playbooks {
		names = append(names, pb.Name)
	}
	return names
}

// Matches reports whether pb passes the filter.
func (f Filter) Matches(pb Playbook) bool {
	switch {
	case f.Group != "":
		return slices.Contains(pb.Groups, f.Group)
	case f.Host != "":
		return slices.Contains(pb.Hosts, f.Host)
	default:
		return true
	}
}

func readPlaybook(fsys fs.FS, name string) (Playbook, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Playbook{}, &PlaybookError{Path: name, Err: err}
	}

	var plays []play
	if err := yaml.Unmarshal(data, &plays); err != nil {
		return Playbook{}, &PlaybookError{Path: name, Err: err}
	}
	if len(plays) == 0 {
		return Playbook{}, &PlaybookError{Path: name, Err: errors.New("no plays")}
	}

	first := plays[0]
	base := path.Base(name)
	return Playbook{
		Name:        strings.TrimSuffix(base, path.Ext(base)),
		Path:        name,
		Hosts:       []string(first.Hosts),
		Groups:      first.Vars.Metadata.Groups,
		Description: strings.TrimSpace(first.Vars.Metadata.Description),
	}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (h *hostList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var hosts []string
		for host := range strings.SplitSeq(node.Value, ",") {
			if host = strings.TrimSpace(host); host != "" {
				hosts = append(hosts, host)
			}
		}
		*h = hosts
		return nil
	case yaml.SequenceNode:
		var hosts []string
		if err := node.Decode(&hosts); err != nil {
			return err
		}
		*h = hosts
		return nil
	default:
		return fmt.Errorf("line %d: hosts must be a string or a list", node.Line)
	}
}
