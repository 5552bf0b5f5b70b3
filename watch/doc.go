// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package watch tracks spatial transforms and reports when any of them moved.
//
// A [Transform] owns its dirty bit: every mutating method sets it, and
// [Transform.TakeChanged] reads and clears it in one step. A [Monitor] holds
// an ordered watch list and, once per frame, asks each entry whether it
// changed since the previous check. Any change invalidates the whole
// accumulated image; there is no partial invalidation.
//
// Transforms and monitors are used from the frame thread only and are not
// safe for concurrent use.
package watch
