// SPDX-License-Identifier: MPL-2.0

// Package execute sequences one invocation: an optional image build followed
// by at most one container action.
//
// The Orchestrator moves through Idle, Building (when requested),
// ActionDispatch, one of Run, List or InventoryPing, and Done. There are no
// retries and nothing runs concurrently. Engine failures are returned as
// PhaseError, which carries the process exit code for the failed phase.
package execute
