// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"validation-cli/internal/testutil"

	"github.com/spf13/afero"
	"github.com/testcontainers/testcontainers-go"
	tcexec "github.com/testcontainers/testcontainers-go/exec"
)

// shellCheckTemplate is a small recipe that records quoted values inside the
// image so the test can check that the shell received them verbatim.
const shellCheckTemplate = `FROM {{ .Image }}
RUN printf '%s\n' {{ shquote .Repository.URL }} > /repo-url
RUN printf '%s\n' {{ shquote .Repository.Branch }} > /repo-branch
`

// TestRenderedRecipeBuilds builds an image from a rendered recipe. It needs a
// working Docker or Podman socket and is opt-in through
// VALIDATION_IMAGE_BUILD_TEST=1.
func TestRenderedRecipeBuilds(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if os.Getenv("VALIDATION_IMAGE_BUILD_TEST") != "1" {
		t.Skip("set VALIDATION_IMAGE_BUILD_TEST=1 to build images")
	}

	sem := testutil.ContainerSemaphore()
	sem <- struct{}{}
	defer func() { <-sem }()

	r, err := Parse("shell-check", shellCheckTemplate)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	v := Values{
		Image: "docker.io/library/alpine:3.20",
		User:  "stack",
		UID:   1000,
		Repository: &RepositorySource{
			URL:    "https://example.com/repo.git;echo pwned",
			Branch: "feature/$(id)",
		},
	}
	text, err := r.Render(v)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	dir := t.TempDir()
	if err := Write(afero.NewOsFs(), filepath.Join(dir, FileName), text); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			FromDockerfile: testcontainers.FromDockerfile{
				Context:    dir,
				Dockerfile: FileName,
			},
			Cmd: []string{"sleep", "300"},
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("skipping: image build unavailable: %v", err)
	}
	defer func() {
		if termErr := testcontainers.TerminateContainer(ctr); termErr != nil {
			t.Logf("terminate container: %v", termErr)
		}
	}()

	for path, want := range map[string]string{
		"/repo-url":    v.Repository.URL,
		"/repo-branch": v.Repository.Branch,
	} {
		code, reader, err := ctr.Exec(ctx, []string{"cat", path}, tcexec.Multiplexed())
		if err != nil || code != 0 {
			t.Fatalf("cat %s: code %d, err %v", path, code, err)
		}
		out, err := io.ReadAll(reader)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if got := strings.TrimSpace(string(out)); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}
}
