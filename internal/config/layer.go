// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// Parameter keys shared by the config file, viper and the CLI layer.
const (
	KeyUser             = "user"
	KeyUID              = "uid"
	KeyKeyfile          = "keyfile"
	KeyImage            = "image"
	KeyExtraPkgs        = "extra_pkgs"
	KeyDebug            = "debug"
	KeyValidations      = "validations"
	KeyRepository       = "repository"
	KeyBranch           = "branch"
	KeyContainer        = "container"
	KeyInventory        = "inventory"
	KeyVolumes          = "volumes"
	KeyLogPath          = "log_path"
	KeyValidationLogDir = "validation_log_dir"
	KeyCommunityDir     = "community_dir"
	KeyCallback         = "callback"
	KeyGroup            = "group"
	KeyHost             = "host"
	KeyNetwork          = "network"
	KeyImageTag         = "image_tag"
	KeyRecipeTemplate   = "recipe_template"
	KeyInteractive      = "interactive"
	KeyBuild            = "build"
	KeyRun              = "run"
	KeyList             = "list"
	KeyInventoryPing    = "inventory_ping"
)

// ListDelimiter joins list values in the persisted form.
const ListDelimiter = ","

// ActionKeys select what a single invocation does. They are never exported.
var ActionKeys = []string{KeyBuild, KeyRun, KeyList, KeyInventoryPing}

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindList
)

type (
	// Layer is one source of parameter values keyed by parameter key. Only
	// keys the source actually set are present.
	Layer map[string]any

	// Kind is the value type of a parameter key.
	Kind int
)

var kinds = map[string]Kind{
	KeyUser:             KindString,
	KeyUID:              KindInt,
	KeyKeyfile:          KindString,
	KeyImage:            KindString,
	KeyExtraPkgs:        KindList,
	KeyDebug:            KindBool,
	KeyValidations:      KindString,
	KeyRepository:       KindString,
	KeyBranch:           KindString,
	KeyContainer:        KindString,
	KeyInventory:        KindString,
	KeyVolumes:          KindList,
	KeyLogPath:          KindString,
	KeyValidationLogDir: KindString,
	KeyCommunityDir:     KindString,
	KeyCallback:         KindString,
	KeyGroup:            KindString,
	KeyHost:             KindString,
	KeyNetwork:          KindString,
	KeyImageTag:         KindString,
	KeyRecipeTemplate:   KindString,
	KeyInteractive:      KindBool,
	KeyBuild:            KindBool,
	KeyRun:              KindBool,
	KeyList:             KindBool,
	KeyInventoryPing:    KindBool,
}

// KindOf returns the kind registered for key.
func KindOf(key string) (Kind, bool) {
	k, ok := kinds[key]
	return k, ok
}

// Keys returns every parameter key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(kinds))
	for k := range kinds {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// checkKeys rejects keys that are not parameter keys.
func (l Layer) checkKeys() error {
	for key := range l {
		if _, ok := kinds[key]; !ok {
			return fmt.Errorf("unknown parameter %q", key)
		}
	}
	return nil
}

// Merge returns a new layer with the entries of over applied on top of l.
func (l Layer) Merge(over Layer) Layer {
	out := make(Layer, len(l)+len(over))
	for k, v := range l {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// JoinList encodes a list value for the persisted form.
func JoinList(values []string) string {
	return strings.Join(values, ListDelimiter)
}

// SplitList decodes the persisted form of the list stored under key.
// Blank segments are dropped, so "" yields an empty list. Packages may also
// be separated by whitespace. For volumes, a segment without ':' continues
// the mount options of the previous entry, which keeps specs like
// "/src:/dst:ro,z" intact.
func SplitList(key, joined string) []string {
	segments := strings.Split(joined, ListDelimiter)
	if key == KeyExtraPkgs {
		segments = SplitPackages([]string{joined})
	}
	out := make([]string, 0, len(segments))

	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if key == KeyVolumes && len(out) > 0 && !strings.Contains(seg, ":") {
			out[len(out)-1] += ListDelimiter + seg
			continue
		}
		out = append(out, seg)
	}

	return out
}

// SplitPackages splits package lists given on the command line, which may
// use commas, whitespace or both.
func SplitPackages(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})...)
	}
	return out
}

// normalizeList drops blank entries and returns a fresh, non-nil slice.
func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
