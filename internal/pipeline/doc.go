// Package pipeline assembles the project services for one open project:
// naming, versioning, entity resolution and lifecycle, outputs, callbacks,
// and per-project hook scripts.
//
// A Core is built once per project. Switching projects means building a new
// Core rather than mutating the current one.
package pipeline
