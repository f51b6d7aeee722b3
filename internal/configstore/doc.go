// Package configstore persists the small per-project YAML documents Prism
// keeps beside the project: omitted entities, shot frame ranges, and the
// pipeline step table.
//
// Documents are addressed by name ("omit", "shotinfo", "pipeline") and hold a
// section -> key -> value structure. Nothing is cached; callers that keep
// derived state in memory refresh it after writing.
package configstore
