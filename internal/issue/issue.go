// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	ContainerEngineNotFoundId Id = iota + 1
	ConfigLoadFailedId
	ConfigInvalidId
	RecipeRenderFailedId
	ImageBuildFailedId
	ValidationRunFailedId
	MountPreparationFailedId
	PlaybookCatalogFailedId
	PermissionDeniedId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	// Issue is a remediation page looked up by Id.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the page through glamour with the given style ("dark",
// "light", "notty" or a style file path). Links are listed in a trailing
// "See also" section.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	containerEngineNotFoundIssue = &Issue{
		id: ContainerEngineNotFoundId,
		mdMsg: `
# Container engine not found!

The configured container engine binary could not be found in your PATH.
Nothing was built or run.

## Things you can try:
- Install podman (recommended) or docker
- Switch engines explicitly:
~~~
$ validation --container docker --run
~~~
- Persist the choice in the ` + "`[Validations]`" + ` section of your config file:
~~~toml
[Validations]
container = "docker"
~~~`,
		extLinks: []HttpLink{"https://podman.io/docs/installation", "https://docs.docker.com/engine/install/"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load the configuration file!

The config file exists but could not be read or is not valid TOML.

## Search locations (in order):
1. The path given with ` + "`--config`" + `
2. ` + "`$XDG_CONFIG_HOME/validation/validation.toml`" + `
3. ` + "`./validation.toml`" + `

## Things you can try:
- Generate a fresh file from the defaults and your flags:
~~~
$ validation --create-config validation.toml
~~~
- Check that all values live under a single ` + "`[Validations]`" + ` table`,
	}

	configInvalidIssue = &Issue{
		id: ConfigInvalidId,
		mdMsg: `
# Invalid configuration value!

One of the resolved parameters is out of range or has the wrong type.

## Common issues:
- ` + "`uid`" + ` must be a non-negative integer
- ` + "`container`" + ` must be ` + "`podman`" + ` or ` + "`docker`" + `
- ` + "`user`" + ` must be a plain lowercase login name
- list values (` + "`volumes`" + `, ` + "`extra_pkgs`" + `) are a single comma separated string

## Things you can try:
~~~
$ validation config show
~~~`,
	}

	recipeRenderFailedIssue = &Issue{
		id: RecipeRenderFailedId,
		mdMsg: `
# Failed to render the Containerfile!

The build recipe template references a value that is missing or cannot be
safely quoted.

## Things you can try:
- If you passed ` + "`--recipe-template`" + `, check its placeholders against the
  built-in fields: ` + "`.Image`, `.User`, `.UID`, `.ExtraPackages`, `.Repository`, `.Interactive`" + `
- Remove newlines or NUL bytes from the image, repository or branch values`,
	}

	imageBuildFailedIssue = &Issue{
		id: ImageBuildFailedId,
		mdMsg: `
# Image build failed!

The container engine returned a non-zero status while building the
validation image from ` + "`./Containerfile`" + `.

## Things you can try:
- Inspect the generated ` + "`Containerfile`" + ` in the current directory
- Check that the base image can be pulled:
~~~
$ podman pull fedora:30
~~~
- Re-run with ` + "`--debug`" + ` to log the exact build command`,
	}

	validationRunFailedIssue = &Issue{
		id: ValidationRunFailedId,
		mdMsg: `
# Validation container failed!

The container started but exited with a non-zero status.

## Things you can try:
- Make sure the image was built first:
~~~
$ validation --build --run
~~~
- Verify the inventory path and the private key are readable
- Re-run with ` + "`--debug`" + ` for verbose playbook output`,
	}

	mountPreparationFailedIssue = &Issue{
		id: MountPreparationFailedId,
		mdMsg: `
# Could not prepare a host mount!

A directory or log file that is bind-mounted into the container could not be
created on the host.

## Things you can try:
- Check permissions of ` + "`--validation-log-dir`" + `, ` + "`--community-dir`" + ` and ` + "`--log-path`" + `
- Point them to a writable location`,
	}

	playbookCatalogFailedIssue = &Issue{
		id: PlaybookCatalogFailedId,
		mdMsg: `
# Failed to read the playbook catalog!

The directory must contain a ` + "`playbooks/`" + ` folder with YAML playbooks.

## Things you can try:
~~~
$ validation catalog /path/to/validations-repository
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

The CLI or the container engine was refused access to a file or socket.

## Things you can try:
- For docker, make sure your user may talk to the daemon socket
- For podman, prefer the rootless setup
- Check the ownership of the key file and the inventory`,
	}

	issues = map[Id]*Issue{
		containerEngineNotFoundIssue.Id(): containerEngineNotFoundIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
		configInvalidIssue.Id():           configInvalidIssue,
		recipeRenderFailedIssue.Id():      recipeRenderFailedIssue,
		imageBuildFailedIssue.Id():        imageBuildFailedIssue,
		validationRunFailedIssue.Id():     validationRunFailedIssue,
		mountPreparationFailedIssue.Id():  mountPreparationFailedIssue,
		playbookCatalogFailedIssue.Id():   playbookCatalogFailedIssue,
		permissionDeniedIssue.Id():        permissionDeniedIssue,
	}
)

// Values returns every registered issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, v := range maps.Values(issues) {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the issue registered under id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
