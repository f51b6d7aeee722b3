// Package outputs derives the paths renders and media conversions write to
// and records the versioninfo.yml metadata written beside them.
//
// Output versions come from the versioning package. In projects without a
// separate output version stack the version of the open scene file is used
// so renders line up with the scene that produced them.
package outputs
