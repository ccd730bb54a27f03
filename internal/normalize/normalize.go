// Package normalize strips delimiter noise from raw statement text while
// preserving row and column structure. The cleaning is deliberately shallow:
// it never reorders or drops non-noise characters, because downstream
// amount/date parsing depends on their relative positions.
package normalize

import (
	"regexp"
	"strings"
)

var (
	pipeRun    = regexp.MustCompile(`\|{2,}`)
	dashRun    = regexp.MustCompile(`-{2,}`)
	equalsRun  = regexp.MustCompile(`={2,}`)
	noiseChars = regexp.MustCompile("[*#~`]")
	spaceRun   = regexp.MustCompile(`[ \t]{3,}`)
	newlineRun = regexp.MustCompile(`\n{4,}`)
)

// QuickClean removes repeated delimiter noise from statement text. Rules
// apply in a fixed order since later rules operate on the partially cleaned
// string:
//
//  1. collapse runs of '|' to one
//  2. collapse runs of '-' to one
//  3. collapse runs of '=' to one
//  4. delete '*', '#', '~' and '`' outright
//  5. collapse 3+ spaces/tabs to a single space; 1-2 spaces are left alone
//     so column-like alignment survives for row extraction
//  6. cap runs of 4+ newlines at exactly 3 (two blank lines)
//
// QuickClean is idempotent: cleaning already-cleaned text is a no-op.
func QuickClean(text string) string {
	text = pipeRun.ReplaceAllString(text, "|")
	text = dashRun.ReplaceAllString(text, "-")
	text = equalsRun.ReplaceAllString(text, "=")
	text = noiseChars.ReplaceAllString(text, "")
	text = spaceRun.ReplaceAllString(text, " ")
	text = newlineRun.ReplaceAllString(text, "\n\n\n")
	return strings.TrimSpace(text)
}
