// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const repoDir = "/usr/share/validations"

func newTestFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll(filepath.Join(repoDir, PlaybookDir), 0o755))
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fsys, filepath.Join(repoDir, PlaybookDir, name), []byte(content), 0o644))
	}
	return fsys
}

var samplePlaybooks = map[string]string{
	"check-ram.yaml": `- hosts: undercloud, overcloud
  vars:
    metadata:
      name: Check RAM
      description: >
        Verify the host has enough memory.
      groups:
        - pre-deployment
        - prep
  roles:
    - check_ram
`,
	"dns.yml": `- hosts: undercloud
  vars:
    metadata:
      groups:
        - pre-introspection
`,
	"ntp.yaml": `- hosts:
    - overcloud
    - controller
  vars:
    metadata:
      groups: [post-deployment, pre-deployment]
`,
	"README.md": "not a playbook\n",
}

func TestList_Filters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "no filter", filter: Filter{}, want: []string{"check-ram", "dns", "ntp"}},
		{name: "group", filter: Filter{Group: "pre-deployment"}, want: []string{"check-ram", "ntp"}},
		{name: "host", filter: Filter{Host: "overcloud"}, want: []string{"check-ram", "ntp"}},
		{name: "host in sequence", filter: Filter{Host: "controller"}, want: []string{"ntp"}},
		{name: "group wins over host", filter: Filter{Group: "pre-introspection", Host: "overcloud"}, want: []string{"dns"}},
		{name: "no match", filter: Filter{Group: "nope"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := New(newTestFs(t, samplePlaybooks)).List(repoDir, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Names(got))
		})
	}
}

func TestList_Metadata(t *testing.T) {
	t.Parallel()

	got, err := New(newTestFs(t, samplePlaybooks)).List(repoDir, Filter{Group: "prep"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "check-ram", got[0].Name)
	assert.Equal(t, "playbooks/check-ram.yaml", got[0].Path)
	assert.Equal(t, []string{"undercloud", "overcloud"}, got[0].Hosts)
	assert.Equal(t, []string{"pre-deployment", "prep"}, got[0].Groups)
	assert.Equal(t, "Verify the host has enough memory.", got[0].Description)
}

func TestList_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing playbook dir", func(t *testing.T) {
		t.Parallel()

		_, err := New(afero.NewMemMapFs()).List(repoDir, Filter{})
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	for name, content := range map[string]string{
		"empty.yaml":   "",
		"mapping.yaml": "hosts: all\n",
		"hosts.yaml":   "- hosts: {a: b}\n",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := New(newTestFs(t, map[string]string{name: content})).List(repoDir, Filter{})
			var pbErr *PlaybookError
			require.ErrorAs(t, err, &pbErr)
			assert.Equal(t, "playbooks/"+name, pbErr.Path)
			assert.ErrorIs(t, err, ErrPlaybook)
		})
	}
}

func TestList_OsFs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fsys := afero.NewOsFs()
	require.NoError(t, fsys.MkdirAll(filepath.Join(dir, PlaybookDir), 0o755))
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(dir, PlaybookDir, "a.yaml"), []byte("- hosts: all\n"), 0o644))

	got, err := New(fsys).List(dir, Filter{Host: "all"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, Names(got))
}
