// Package config loads, normalizes, and validates Prism configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PRISM_USER. The Config type centralizes the project roots, naming grammar,
// directory layout, and hook settings, so the resolver packages receive one
// consistent view of the open project.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
