// Package naming parses and generates Prism scene file names.
//
// A scene file name is a separator-joined tuple. Assets encode
// name, step, [category,] version, comment, user, and extension; shots prepend
// the literal "shot" marker and always carry a category. The field count alone
// decides the classification, and anything that does not fit is reported as
// EntityInvalid rather than as an error.
package naming
