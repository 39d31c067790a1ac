package builtins

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// localeUpper/localeLower/localeCollate back
// String.prototype.toLocaleUpperCase/toLocaleLowerCase/localeCompare
// with real Unicode case folding and collation instead
// of the byte-wise ASCII case conversion toUpperCase/toLowerCase use.
// language.Und (undetermined) is used throughout since this interpreter has
// no notion of a host-configured locale.

var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
	collator   = collate.New(language.Und)
)

func localeUpper(s string) string { return upperCaser.String(s) }
func localeLower(s string) string { return lowerCaser.String(s) }
func localeCollate(a, b string) int {
	return collator.CompareString(a, b)
}
