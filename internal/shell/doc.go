// SPDX-License-Identifier: MPL-2.0

// Package shell provides the command-execution collaborators the graph
// engine delegates command-line actions to. SystemRunner executes through
// the host shell; VirtualRunner executes in the embedded mvdan/sh
// interpreter with no external shell requirement. Both block until the
// command exits and report a non-zero exit status as *CommandError.
package shell
