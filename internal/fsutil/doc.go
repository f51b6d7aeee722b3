// Package fsutil holds the low-level file operations shared by the entity
// lifecycle: verified copy and move of scene files and classification of the
// OS errors that mean "another program holds this file".
package fsutil
