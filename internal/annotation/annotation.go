// Package annotation recognizes the import registrations that the upstream
// initializer stage embeds in a generated bootstrap script.
//
// The strict grammar matches one full registration statement per line:
//
//	new InitEntry(const i0.HtmlImport('<path>'), const i1.LibraryIdentifier(#sym, <pkg>, '<module>')),
//
// where <pkg> is a quoted package name or the bare token `null`, meaning the
// declaration belongs to the entry point's own package. A looser grammar
// matches the same registration head with an arbitrary argument expression;
// those occurrences cannot be processed and are only reported.
package annotation

import (
	"regexp"
	"strings"
)

// samePackageToken is the literal the upstream stage emits when an import is
// declared by the entry point's own package. It is a real token in the
// generated source, not an absent field.
const samePackageToken = "null"

const (
	identPat  = `[A-Za-z_$][A-Za-z0-9_$]*`
	symbolPat = `#[A-Za-z0-9_$.]*`
	nsPat     = `(?:` + identPat + `\.)?`
	fieldPat  = `(?:'([^']+)'|(` + identPat + `))`
)

// primaryRe captures (path, quoted pkg, bare pkg, quoted module, bare module)
// from one full statement, line start through the trailing comma. The trailing
// newline is part of the span so that stripping removes whole lines.
var primaryRe = regexp.MustCompile(
	`(?m)^[ \t]*new InitEntry\(\s*` +
		`const\s+` + nsPat + `HtmlImport\('([^']+)'\)\s*,\s*` +
		`const\s+` + nsPat + `LibraryIdentifier\(\s*` + symbolPat + `\s*,\s*` +
		fieldPat + `\s*,\s*` + fieldPat + `\s*\)\s*\)\s*,[ \t]*\r?\n?`)

// looseRe matches the registration head with any single-line argument text.
// It exists only to surface occurrences the strict grammar cannot handle.
var looseRe = regexp.MustCompile(
	`(?m)^[ \t]*new InitEntry\(\s*const\s+` + nsPat + `HtmlImport\(.*\)\s*,\s*.+\)\s*,[ \t]*\r?$`)

// DeclaringPackage identifies the package that declared an import. It is
// either an explicit package name or the marker for "same package as the
// entry point".
type DeclaringPackage struct {
	name string
	same bool
}

// ExplicitPackage returns the declaring-package value for a named package.
func ExplicitPackage(name string) DeclaringPackage {
	return DeclaringPackage{name: name}
}

// EntryPointPackage returns the marker for the entry point's own package.
func EntryPointPackage() DeclaringPackage {
	return DeclaringPackage{same: true}
}

// SameAsEntryPoint reports whether the declaration belongs to the entry
// point's own package.
func (p DeclaringPackage) SameAsEntryPoint() bool { return p.same }

// Name returns the explicit package name. It is empty for the entry-point
// marker.
func (p DeclaringPackage) Name() string { return p.name }

func (p DeclaringPackage) String() string {
	if p.same {
		return "<entry point package>"
	}
	return p.name
}

// Match is one recognized import registration: the raw import path, the
// declaring package, and the declaring module's path inside that package.
type Match struct {
	Path    string
	Package DeclaringPackage
	Module  string
}

// Extraction is the result of scanning one script: the distinct recognized
// registrations, plus the statements that matched only the loose grammar.
type Extraction struct {
	Imports   []Match
	Leftovers []string
}

// Extract scans script text for import registrations. Imports holds distinct
// strict-grammar matches in first-seen order; duplicates with identical
// fields collapse to one entry. Leftovers holds the text of loose-grammar
// statements that remain once every strict match is removed, which are the
// registrations whose argument is a computed expression rather than a plain
// literal. Extract never modifies the input; running it twice yields equal
// results.
func Extract(src string) Extraction {
	var ex Extraction
	seen := make(map[Match]struct{})
	for _, m := range primaryRe.FindAllStringSubmatch(src, -1) {
		match := Match{
			Path:    m[1],
			Package: packageFromToken(pickField(m[2], m[3])),
			Module:  pickField(m[4], m[5]),
		}
		if _, dup := seen[match]; dup {
			continue
		}
		seen[match] = struct{}{}
		ex.Imports = append(ex.Imports, match)
	}
	for _, raw := range looseRe.FindAllString(Strip(src), -1) {
		ex.Leftovers = append(ex.Leftovers, strings.TrimSpace(raw))
	}
	return ex
}

// Strip removes every strict-grammar statement from the script text,
// occurrence for occurrence, and leaves all other text untouched. Loose-only
// occurrences survive byte for byte.
func Strip(src string) string {
	return primaryRe.ReplaceAllString(src, "")
}

// packageFromToken maps a captured package field to its tagged value. The
// upstream stage emits the same-package token both bare and quoted depending
// on its version, so both spellings map to the entry-point marker.
func packageFromToken(tok string) DeclaringPackage {
	if tok == samePackageToken {
		return EntryPointPackage()
	}
	return ExplicitPackage(tok)
}

// pickField returns whichever alternative of a quoted-or-bare field capture
// is present.
func pickField(quoted, bare string) string {
	if quoted != "" {
		return quoted
	}
	return bare
}
