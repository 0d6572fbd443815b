package core

import "regexp"

// identifierPattern is the variable name grammar shared by placeholder
// matching and name validation.
const identifierPattern = `[A-Za-z_][A-Za-z0-9_]*`

var variableNameRegex = regexp.MustCompile(`^` + identifierPattern + `$`)

// IsValidVariableName reports whether name is a non-empty identifier made of
// ASCII letters, digits and underscores that does not start with a digit.
func IsValidVariableName(name string) bool {
	return variableNameRegex.MatchString(name)
}
