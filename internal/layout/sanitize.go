package layout

import (
	"regexp"
	"strings"
)

// illegalChars are characters not allowed in filenames on common filesystems.
var illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00]`)

// multiSpace matches multiple consecutive spaces.
var multiSpace = regexp.MustCompile(`\s+`)

// multiDot matches multiple consecutive dots.
var multiDot = regexp.MustCompile(`\.{2,}`)

// Sanitize replaces characters that are unsafe for filenames. The rule is
// stable (same title always yields the same string) and is shared with the
// migration engine's reverse parsing, so it must not change without a
// matching change there.
func Sanitize(name string) string {
	name = strings.ReplaceAll(name, "\x00", "")
	name = illegalChars.ReplaceAllString(name, " ")
	name = multiDot.ReplaceAllString(name, ".")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.Trim(name, " .")
}
