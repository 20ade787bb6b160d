// SPDX-License-Identifier: MPL-2.0

// Package container runs the podman or docker CLI.
//
// NewEngine resolves the configured engine binary on PATH and fails with
// EngineNotFoundError when it is missing; there is no fallback to the other
// engine. Engine.Execute spawns one command vector synchronously with the
// caller's stdio and reports a non-zero exit as EngineExecutionError.
//
// Both engines embed BaseCLIEngine, which owns process creation. Tests swap
// the exec function through WithExecCommand.
package container
