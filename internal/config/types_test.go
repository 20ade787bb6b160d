// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestParams_Action(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params Params
		want   Action
	}{
		{name: "nothing set", params: Params{}, want: ActionNone},
		{name: "build only", params: Params{Build: true}, want: ActionBuildOnly},
		{name: "run wins over list", params: Params{Run: true, List: true, InventoryPing: true}, want: ActionRun},
		{name: "list wins over ping", params: Params{List: true, InventoryPing: true}, want: ActionList},
		{name: "ping", params: Params{InventoryPing: true}, want: ActionInventoryPing},
		{name: "build with run", params: Params{Build: true, Run: true}, want: ActionRun},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.params.Action(); got != tt.want {
				t.Errorf("Action() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContainerEngine_Validate(t *testing.T) {
	t.Parallel()

	for _, engine := range []ContainerEngine{ContainerEnginePodman, ContainerEngineDocker} {
		if err := engine.Validate(); err != nil {
			t.Errorf("%s.Validate() = %v, want nil", engine, err)
		}
	}

	err := ContainerEngine("lxc").Validate()
	if !errors.Is(err, ErrInvalidContainerEngine) {
		t.Fatalf("expected ErrInvalidContainerEngine, got %v", err)
	}
	var engineErr *InvalidContainerEngineError
	if !errors.As(err, &engineErr) || engineErr.Value != "lxc" {
		t.Errorf("expected InvalidContainerEngineError for lxc, got %v", err)
	}
}

func TestParams_ValidateCollectsAllErrors(t *testing.T) {
	t.Parallel()

	p := testDefaults()
	p.UID = -5
	p.Engine = "rkt"
	p.User = "Root"

	err := p.Validate()
	var paramsErr *InvalidParamsError
	if !errors.As(err, &paramsErr) {
		t.Fatalf("expected InvalidParamsError, got %v", err)
	}
	if len(paramsErr.FieldErrors) != 3 {
		t.Errorf("FieldErrors = %v, want 3 entries", paramsErr.FieldErrors)
	}
	for _, sentinel := range []error{ErrInvalidUID, ErrInvalidContainerEngine, ErrInvalidUser} {
		if !errors.Is(err, sentinel) {
			t.Errorf("errors.Is(err, %v) = false", sentinel)
		}
	}
}

func TestParams_WithCommandCopies(t *testing.T) {
	t.Parallel()

	args := []string{"validation", "list"}
	p := testDefaults().WithCommand(args)
	args[0] = "mutated"

	if p.Command[0] != "validation" {
		t.Errorf("WithCommand must copy its input, got %v", p.Command)
	}
}

func TestDefaultParams(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	if err := p.Validate(); err != nil {
		t.Fatalf("DefaultParams() must validate, got %v", err)
	}
	if p.Engine != ContainerEnginePodman {
		t.Errorf("default engine = %q, want podman", p.Engine)
	}
	if p.ImageTag != DefaultImageTag {
		t.Errorf("default image tag = %q, want %q", p.ImageTag, DefaultImageTag)
	}
	if p.Volumes == nil || len(p.Volumes) != 0 {
		t.Errorf("default volumes = %#v, want empty non-nil list", p.Volumes)
	}
}
