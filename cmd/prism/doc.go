// Package main hosts the prism CLI.
//
// Commands open the configured project through the pipeline package and
// expose entity listing and creation, scene file naming, version lookup,
// output paths, and hook scripts. Questions are asked on the terminal; when
// stdin is not a terminal they are answered "No" and retries are canceled.
package main
