// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"validation-cli/internal/config"
	"validation-cli/internal/container"
	"validation-cli/internal/invocation"
	"validation-cli/internal/recipe"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/afero"
)

const (
	StateIdle           State = "idle"
	StateBuilding       State = "building"
	StateActionDispatch State = "action-dispatch"
	StateRun            State = "run"
	StateList           State = "list"
	StateInventoryPing  State = "inventory-ping"
	StateDone           State = "done"
)

type (
	// State is a step of one invocation.
	State string

	// EngineFactory resolves the engine for a configured engine type.
	EngineFactory func(container.EngineType) (container.Engine, error)

	// DryRunFunc receives each vector instead of the engine in dry-run mode.
	DryRunFunc func(phase container.Phase, vector invocation.Vector)

	// Option configures an Orchestrator.
	Option func(*Orchestrator)

	// Result records what one Execute call did.
	Result struct {
		// States lists the visited states in order.
		States []State
		// Vectors lists every vector handed to the engine (or the dry-run
		// sink), in order.
		Vectors []invocation.Vector
		// Recipe is the rendered Containerfile, when a build ran.
		Recipe string
		// Warnings collects non-fatal findings shown to the user.
		Warnings []string
	}

	// Orchestrator runs the build and action phases for resolved parameters.
	Orchestrator struct {
		fs        afero.Fs
		gitFS     billy.Filesystem
		newEngine EngineFactory
		streams   container.Streams
		dryRun    DryRunFunc
	}
)

// WithFS sets the filesystem used for the recipe and mount preparation.
func WithFS(fs afero.Fs) Option {
	return func(o *Orchestrator) { o.fs = fs }
}

// WithGitFS sets the filesystem a local repository checkout is read from.
// Repository paths are looked up on both WithFS and fsys, so the two must
// agree.
func WithGitFS(fsys billy.Filesystem) Option {
	return func(o *Orchestrator) { o.gitFS = fsys }
}

// WithEngineFactory replaces container.NewEngine.
func WithEngineFactory(fn EngineFactory) Option {
	return func(o *Orchestrator) { o.newEngine = fn }
}

// WithStreams sets the stdio handed to the engine.
func WithStreams(streams container.Streams) Option {
	return func(o *Orchestrator) { o.streams = streams }
}

// WithDryRun reports vectors to fn instead of executing them. The engine is
// not resolved in dry-run mode.
func WithDryRun(fn DryRunFunc) Option {
	return func(o *Orchestrator) { o.dryRun = fn }
}

// NewOrchestrator returns an orchestrator using the OS filesystem, the
// process stdio and the engine found on PATH, unless overridden.
func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		fs:    afero.NewOsFs(),
		gitFS: osfs.New("/"),
		newEngine: func(t container.EngineType) (container.Engine, error) {
			return container.NewEngine(t)
		},
		streams: container.Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Final returns the last visited state.
func (r Result) Final() State {
	if len(r.States) == 0 {
		return StateIdle
	}
	return r.States[len(r.States)-1]
}

func (r *Result) visit(s State) {
	r.States = append(r.States, s)
}

// Execute runs the optional build and then dispatches the single action of
// p. The engine is resolved before anything is built so a missing engine
// fails fast.
func (o *Orchestrator) Execute(ctx context.Context, p config.Params) (Result, error) {
	var res Result
	res.visit(StateIdle)

	action := p.Action()
	phase, actionState, dispatches := dispatchTarget(action)

	var engine container.Engine
	if (p.Build || dispatches) && o.dryRun == nil {
		var err error
		engine, err = o.newEngine(container.EngineType(p.Engine))
		if err != nil {
			return res, err
		}
		if p.Debug {
			o.logEngine(ctx, engine, p.ImageTag)
		}
	}

	if p.Build {
		res.visit(StateBuilding)
		if err := o.build(ctx, engine, p, &res); err != nil {
			return res, err
		}
	}

	res.visit(StateActionDispatch)
	if !dispatches {
		slog.Debug("no action selected", "action", action)
		res.visit(StateDone)
		return res, nil
	}

	res.visit(actionState)
	o.checkRepository(p, &res)

	vector, err := invocation.NewBuilder(o.fs).Build(action, p)
	if err != nil {
		return res, err
	}
	if err := o.run(ctx, engine, phase, vector, &res); err != nil {
		return res, &PhaseError{Phase: phase, Err: err}
	}

	res.visit(StateDone)
	return res, nil
}

// dispatchTarget maps an action to its engine phase and state.
func dispatchTarget(action config.Action) (container.Phase, State, bool) {
	switch action {
	case config.ActionRun:
		return container.PhaseRun, StateRun, true
	case config.ActionList:
		return container.PhaseList, StateList, true
	case config.ActionInventoryPing:
		return container.PhaseInventoryPing, StateInventoryPing, true
	default:
		return "", "", false
	}
}

// build renders and writes the recipe, then builds the image. Rendering
// failures are returned as they are; write and engine failures become a
// build PhaseError.
func (o *Orchestrator) build(ctx context.Context, engine container.Engine, p config.Params, res *Result) error {
	renderer, err := o.renderer(p)
	if err != nil {
		return err
	}

	text, err := renderer.Render(recipe.ValuesFrom(o.fs, p))
	if err != nil {
		return err
	}
	res.Recipe = text

	if err := recipe.Write(o.fs, recipe.FileName, text); err != nil {
		return &PhaseError{Phase: container.PhaseBuild, Err: err}
	}
	slog.Debug("wrote recipe", "path", recipe.FileName, "bytes", len(text))

	if err := o.run(ctx, engine, container.PhaseBuild, invocation.BuildImage(p), res); err != nil {
		return &PhaseError{Phase: container.PhaseBuild, Err: err}
	}
	return nil
}

func (o *Orchestrator) renderer(p config.Params) (*recipe.Renderer, error) {
	if p.RecipeTemplate != "" {
		return recipe.NewRendererFromFile(o.fs, p.RecipeTemplate)
	}
	return recipe.NewRenderer()
}

func (o *Orchestrator) run(ctx context.Context, engine container.Engine, phase container.Phase, vector invocation.Vector, res *Result) error {
	res.Vectors = append(res.Vectors, vector)

	if o.dryRun != nil {
		o.dryRun(phase, vector)
		return nil
	}

	slog.Debug("running engine", "phase", phase, "command", vector.String())
	if err := engine.Execute(ctx, phase, vector, o.streams); err != nil {
		return err
	}
	return nil
}

func (o *Orchestrator) logEngine(ctx context.Context, engine container.Engine, tag string) {
	if version, err := engine.Version(ctx); err != nil {
		slog.Debug("engine version unavailable", "engine", engine.Name(), "error", err)
	} else {
		slog.Debug("container engine", "engine", engine.Name(), "path", engine.BinaryPath(), "version", version)
	}

	exists, err := engine.ImageExists(ctx, tag)
	if err != nil {
		slog.Debug("image lookup failed", "image", tag, "error", err)
		return
	}
	slog.Debug("validation image", "image", tag, "present", exists)
}

// checkRepository warns when a mounted local checkout is on another branch
// than the configured one. The checkout is mounted as it is.
func (o *Orchestrator) checkRepository(p config.Params, res *Result) {
	if p.Repository == "" {
		return
	}
	if isDir, err := afero.IsDir(o.fs, p.Repository); err != nil || !isDir {
		return
	}

	abs, err := filepath.Abs(p.Repository)
	if err != nil {
		return
	}
	branch, err := LocalBranch(o.gitFS, abs)
	if err != nil {
		slog.Debug("not a git checkout, skipping branch check", "path", p.Repository, "error", err)
		return
	}
	if branch != "" && branch != p.Branch {
		msg := fmt.Sprintf("local repository %s is on branch %q, not %q; it is mounted as-is", p.Repository, branch, p.Branch)
		slog.Warn(msg)
		res.Warnings = append(res.Warnings, msg)
	}
}
