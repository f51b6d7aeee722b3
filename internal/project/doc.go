// Package project describes the production project that is currently open.
//
// A Context is built from configuration when a project is opened and handed to
// every resolver, lifecycle, and dispatch component by pointer. It never
// changes after construction; switching projects means building a new one.
//
// Besides the identity values (roots, user, format version, separators) the
// package owns the pure path arithmetic shared by the rest of Prism: asset and
// shot base paths per location, global/local path conversion, format-version
// comparison, and the entity path mapping for assets, shots, steps, and
// categories.
package project
