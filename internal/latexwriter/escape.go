// =============================================================================
// FieldMove Notes Merger - LaTeX Escaping
// =============================================================================
//
// ESCAPED CHARACTERS:
//   %  ->  \%
//   <  ->  $<$
//   >  ->  $>$
//   ~  ->  \textasciitilde{}
//   #  ->  \#
//
// =============================================================================

package latexwriter

import "strings"

// escaper replaces the characters that break the longtable body. The
// replacement runs in a single pass, so a substituted sequence is never
// escaped again within the same call.
var escaper = strings.NewReplacer(
	`%`, `\%`,
	`<`, `$<$`,
	`>`, `$>$`,
	`~`, `\textasciitilde{}`,
	`#`, `\#`,
)

// Escape makes user-authored text safe to embed in a record body. It must not
// be applied to document scaffolding.
func Escape(s string) string {
	return escaper.Replace(s)
}
