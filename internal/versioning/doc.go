// Package versioning discovers existing versions of scene files and output
// tasks and computes the next free version.
//
// Scene versions come from parsing the immediate files of a scene directory
// (global and local mirror merged); task versions come from the v<digits>
// directories below an output task across every export root. The next version
// is always the numeric maximum plus one. Two callers computing a next version
// from the same snapshot can collide; callers serialize writes themselves.
package versioning
