// SPDX-License-Identifier: MIT

// Package procgroup spawns subprocesses in their own process group and
// signals the whole group, so child processes forked by the capture
// binary are terminated together with it.
package procgroup
