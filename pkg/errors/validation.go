package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// Names end up in cache keys, registry URLs, and config files, so the
// validators reject anything that could escape those contexts.
const maxNameLength = 256

func checkNameSafety(name, kind string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidPackage, "%s cannot be empty", kind)
	case len(name) > maxNameLength:
		return New(ErrCodeInvalidPackage, "%s too long (max %d characters)", kind, maxNameLength)
	case strings.Contains(name, ".."), strings.ContainsAny(name, "/\\\x00"):
		return New(ErrCodeInvalidPackage, "%s contains path characters: %q", kind, name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "%s contains control characters", kind)
		}
	}
	return nil
}

// PEP 508: leading and trailing runes must be alphanumeric, the interior
// may also contain dots, hyphens, and underscores.
var pythonPackageNameRegex = regexp.MustCompile(`^([A-Za-z0-9]|[A-Za-z0-9][A-Za-z0-9._-]*[A-Za-z0-9])$`)

// ValidatePythonPackageName checks a distribution name against PEP 508.
func ValidatePythonPackageName(name string) error {
	if err := checkNameSafety(name, "package name"); err != nil {
		return err
	}
	if !pythonPackageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid Python package name: %q", name)
	}
	return nil
}

var importNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateImportName checks a top-level module name (Python identifier
// syntax, no dots).
func ValidateImportName(name string) error {
	if err := checkNameSafety(name, "import name"); err != nil {
		return err
	}
	if !importNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid import name: %q", name)
	}
	return nil
}
