// SPDX-License-Identifier: MPL-2.0

package config

import (
	"slices"
	"strings"
)

// Params is the resolved parameter set for one invocation. It is a value
// type: consumers receive copies and must treat the slices as read-only.
type Params struct {
	User             string          `mapstructure:"user"`
	UID              int             `mapstructure:"uid"`
	Keyfile          string          `mapstructure:"keyfile"`
	Image            string          `mapstructure:"image"`
	ExtraPackages    []string        `mapstructure:"extra_pkgs"`
	Debug            bool            `mapstructure:"debug"`
	Validations      string          `mapstructure:"validations"`
	Repository       string          `mapstructure:"repository"`
	Branch           string          `mapstructure:"branch"`
	Engine           ContainerEngine `mapstructure:"container"`
	Inventory        string          `mapstructure:"inventory"`
	Volumes          []string        `mapstructure:"volumes"`
	LogPath          string          `mapstructure:"log_path"`
	ValidationLogDir string          `mapstructure:"validation_log_dir"`
	CommunityDir     string          `mapstructure:"community_dir"`
	Callback         string          `mapstructure:"callback"`
	Group            string          `mapstructure:"group"`
	Host             string          `mapstructure:"host"`
	Network          string          `mapstructure:"network"`
	ImageTag         string          `mapstructure:"image_tag"`
	RecipeTemplate   string          `mapstructure:"recipe_template"`
	Interactive      bool            `mapstructure:"interactive"`
	Build            bool            `mapstructure:"build"`
	Run              bool            `mapstructure:"run"`
	List             bool            `mapstructure:"list"`
	InventoryPing    bool            `mapstructure:"inventory_ping"`

	// Command holds trailing positional arguments. It never comes from a
	// layer and is never persisted.
	Command []string `mapstructure:"-"`
}

// Action derives the single action to dispatch. Run wins over list, list over
// inventory-ping. With no action flag set, a requested build becomes
// ActionBuildOnly and anything else is ActionNone.
func (p Params) Action() Action {
	switch {
	case p.Run:
		return ActionRun
	case p.List:
		return ActionList
	case p.InventoryPing:
		return ActionInventoryPing
	case p.Build:
		return ActionBuildOnly
	default:
		return ActionNone
	}
}

// WithCommand returns a copy of p carrying the trailing command arguments.
func (p Params) WithCommand(args []string) Params {
	p.Command = slices.Clone(args)
	return p
}

// Validate checks every typed field and collects all failures into an
// InvalidParamsError.
func (p Params) Validate() error {
	var errs []error

	if !ValidUserName(p.User) {
		errs = append(errs, &InvalidUserError{Value: p.User})
	}
	if p.UID < 0 {
		errs = append(errs, &InvalidUIDError{Value: p.UID})
	}
	if err := p.Engine.Validate(); err != nil {
		errs = append(errs, err)
	}
	for key, value := range map[string]string{
		KeyImage:    p.Image,
		KeyImageTag: p.ImageTag,
		KeyBranch:   p.Branch,
		KeyKeyfile:  p.Keyfile,
		KeyNetwork:  p.Network,
	} {
		if strings.TrimSpace(value) == "" || strings.ContainsAny(value, "\r\n") {
			errs = append(errs, &MissingValueError{Key: key})
		}
	}

	if len(errs) > 0 {
		slices.SortFunc(errs, func(a, b error) int { return strings.Compare(a.Error(), b.Error()) })
		return &InvalidParamsError{FieldErrors: errs}
	}
	return nil
}

// Layer converts p back into a layer holding every key. Export uses it to
// persist the defaults overlaid with explicit flags.
func (p Params) Layer() Layer {
	return Layer{
		KeyUser:             p.User,
		KeyUID:              p.UID,
		KeyKeyfile:          p.Keyfile,
		KeyImage:            p.Image,
		KeyExtraPkgs:        slices.Clone(p.ExtraPackages),
		KeyDebug:            p.Debug,
		KeyValidations:      p.Validations,
		KeyRepository:       p.Repository,
		KeyBranch:           p.Branch,
		KeyContainer:        string(p.Engine),
		KeyInventory:        p.Inventory,
		KeyVolumes:          slices.Clone(p.Volumes),
		KeyLogPath:          p.LogPath,
		KeyValidationLogDir: p.ValidationLogDir,
		KeyCommunityDir:     p.CommunityDir,
		KeyCallback:         p.Callback,
		KeyGroup:            p.Group,
		KeyHost:             p.Host,
		KeyNetwork:          p.Network,
		KeyImageTag:         p.ImageTag,
		KeyRecipeTemplate:   p.RecipeTemplate,
		KeyInteractive:      p.Interactive,
		KeyBuild:            p.Build,
		KeyRun:              p.Run,
		KeyList:             p.List,
		KeyInventoryPing:    p.InventoryPing,
	}
}
