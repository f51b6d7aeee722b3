// Package entities resolves, lists, creates, and renames the production
// entities of a project: assets, asset folders, shots, steps, and
// categories.
//
// Resolver answers questions by listing the filesystem under the project's
// global root and, when enabled, its local mirror. Lifecycle adds the
// mutating operations and announces new entities through the callback
// dispatcher. Omitted entities stay on disk but are hidden from listings;
// the omit lists are cached and reloaded by RefreshOmitted.
package entities
