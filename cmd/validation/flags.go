// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"validation-cli/internal/config"

	"github.com/spf13/pflag"
)

type (
	rootOptions struct {
		configPath   string
		createConfig string
		dryRun       bool
	}

	paramFlag struct {
		name  string
		short string
		key   string
		usage string
	}
)

// paramFlags maps every parameter key to its command line flag.
var paramFlags = []paramFlag{
	{"user", "u", config.KeyUser, "user name inside the image"},
	{"uid", "", config.KeyUID, "uid of the image user"},
	{"keyfile", "K", config.KeyKeyfile, "private key mounted for ansible"},
	{"image", "", config.KeyImage, "base image of the Containerfile"},
	{"extra-pkgs", "", config.KeyExtraPkgs, "extra packages installed in the image (repeatable, comma or space separated)"},
	{"debug", "D", config.KeyDebug, "log engine commands and raise ansible verbosity"},
	{"validations", "", config.KeyValidations, "validations to run"},
	{"repository", "r", config.KeyRepository, "validation repository: a local checkout (mounted) or a git URL (cloned)"},
	{"branch", "b", config.KeyBranch, "branch of the validation repository"},
	{"container", "c", config.KeyContainer, "container engine (podman or docker)"},
	{"inventory", "I", config.KeyInventory, "inventory file, or an inline inventory passed through the environment"},
	{"volumes", "v", config.KeyVolumes, "extra volume host:container[:options] (repeatable)"},
	{"log-path", "", config.KeyLogPath, "host file receiving the validation log"},
	{"validation-log-dir", "l", config.KeyValidationLogDir, "host directory for validation logs"},
	{"community-dir", "", config.KeyCommunityDir, "host directory of community validations"},
	{"callback", "", config.KeyCallback, "ansible stdout callback"},
	{"group", "g", config.KeyGroup, "run or list validations of this group"},
	{"host", "", config.KeyHost, "run or list validations for this host"},
	{"network", "", config.KeyNetwork, "container network mode"},
	{"image-tag", "", config.KeyImageTag, "tag the image is built and run as"},
	{"recipe-template", "", config.KeyRecipeTemplate, "Containerfile template replacing the built-in one"},
	{"interactive", "i", config.KeyInteractive, "run the container with a terminal and the validation entrypoint"},
	{"build", "B", config.KeyBuild, "build the image"},
	{"run", "R", config.KeyRun, "run validations"},
	{"list", "L", config.KeyList, "list validations"},
	{"inventory-ping", "P", config.KeyInventoryPing, "ping every inventory host"},
}

// registerParamFlags adds one flag per parameter key. defaults only feed
// the help output: flags enter the CLI layer when they are passed.
func registerParamFlags(fs *pflag.FlagSet, defaults config.Params) {
	values := defaults.Layer()

	for _, f := range paramFlags {
		kind, ok := config.KindOf(f.key)
		if !ok {
			panic(fmt.Sprintf("flag %s has no parameter kind", f.name))
		}

		switch kind {
		case config.KindString:
			s, _ := values[f.key].(string)
			fs.StringP(f.name, f.short, s, f.usage)
		case config.KindInt:
			n, _ := values[f.key].(int)
			fs.IntP(f.name, f.short, n, f.usage)
		case config.KindBool:
			b, _ := values[f.key].(bool)
			fs.BoolP(f.name, f.short, b, f.usage)
		case config.KindList:
			fs.StringArrayP(f.name, f.short, nil, f.usage)
		}
	}
}

// cliLayer returns the layer of parameter flags the user actually passed.
// pflag.Visit only walks flags whose Changed bit is set.
func cliLayer(fs *pflag.FlagSet) config.Layer {
	keys := make(map[string]string, len(paramFlags))
	for _, f := range paramFlags {
		keys[f.name] = f.key
	}

	layer := config.Layer{}
	fs.Visit(func(f *pflag.Flag) {
		key, ok := keys[f.Name]
		if !ok {
			return
		}
		kind, _ := config.KindOf(key)

		switch kind {
		case config.KindString:
			layer[key] = f.Value.String()
		case config.KindInt:
			n, _ := fs.GetInt(f.Name)
			layer[key] = n
		case config.KindBool:
			b, _ := fs.GetBool(f.Name)
			layer[key] = b
		case config.KindList:
			values, _ := fs.GetStringArray(f.Name)
			layer[key] = listValue(key, values)
		}
	})
	return layer
}

func listValue(key string, values []string) []string {
	if key == config.KeyExtraPkgs {
		pkgs := config.SplitPackages(values)
		if pkgs == nil {
			return []string{}
		}
		return pkgs
	}

	out := []string{}
	for _, v := range values {
		out = append(out, config.SplitList(key, v)...)
	}
	return out
}
