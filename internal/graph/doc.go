// SPDX-License-Identifier: MPL-2.0

// Package graph implements the dependency-resolution and execution-ordering
// engine behind graphrun. Callers register named targets, each with an action
// and zero or more dependency references, then request execution of one
// target by name. The engine walks the dependency edges depth-first and runs
// each distinct action at most once per Execute call, even when the graph
// contains cycles or when the same action is reachable through several paths.
//
// The registry is mutable shared state across Execute calls from one owning
// goroutine. It is not safe for concurrent mutation or concurrent execution;
// callers needing that must serialize access externally.
package graph
