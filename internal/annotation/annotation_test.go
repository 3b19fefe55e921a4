package annotation

import (
	"reflect"
	"strings"
	"testing"
)

const bootstrapSample = `library app_bootstrap;

import 'package:initialize/initialize.dart';
import 'index.dart' as i0;
import 'package:a/foo.dart' as i1;

main() {
  initializers.addAll([
    new InitEntry(const i0.HtmlImport('foo.html'), const i1.LibraryIdentifier(#foo, null, 'lib/foo.dart')),
    new InitEntry(const i0.HtmlImport('bar.html'), const i1.LibraryIdentifier(#bar, 'b', 'lib/bar.dart')),
    new InitEntry(const i0.HtmlImport(computedPath), const i1.LibraryIdentifier(#baz, null, 'lib/baz.dart')),
  ]);

  i0.main();
}
`

func TestExtractRecognizesStrictMatches(t *testing.T) {
	ex := Extract(bootstrapSample)

	want := []Match{
		{Path: "foo.html", Package: EntryPointPackage(), Module: "lib/foo.dart"},
		{Path: "bar.html", Package: ExplicitPackage("b"), Module: "lib/bar.dart"},
	}
	if !reflect.DeepEqual(ex.Imports, want) {
		t.Fatalf("unexpected imports.\n got: %+v\nwant: %+v", ex.Imports, want)
	}
	if len(ex.Leftovers) != 1 {
		t.Fatalf("expected one leftover, got %d: %v", len(ex.Leftovers), ex.Leftovers)
	}
	if !strings.Contains(ex.Leftovers[0], "computedPath") {
		t.Fatalf("leftover should reference the computed expression, got %q", ex.Leftovers[0])
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	first := Extract(bootstrapSample)
	second := Extract(bootstrapSample)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("extraction differed across runs.\nfirst: %+v\nsecond: %+v", first, second)
	}
}

func TestExtractCollapsesDuplicates(t *testing.T) {
	line := "new InitEntry(const i0.HtmlImport('x.html'), const i1.LibraryIdentifier(#x, null, 'lib/x.dart')),\n"
	src := line + line + line
	ex := Extract(src)
	if len(ex.Imports) != 1 {
		t.Fatalf("expected duplicates to collapse to one import, got %d", len(ex.Imports))
	}
}

func TestExtractVariantSpellings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Match
	}{
		{
			name: "no namespace prefix",
			src:  "new InitEntry(const HtmlImport('a.html'), const LibraryIdentifier(#a, null, 'lib/a.dart')),\n",
			want: Match{Path: "a.html", Package: EntryPointPackage(), Module: "lib/a.dart"},
		},
		{
			name: "multi digit namespace",
			src:  "new InitEntry(const i12.HtmlImport('deep/a.html'), const i42.LibraryIdentifier(#a.b, 'pkg', 'lib/src/a.dart')),\n",
			want: Match{Path: "deep/a.html", Package: ExplicitPackage("pkg"), Module: "lib/src/a.dart"},
		},
		{
			name: "quoted sentinel",
			src:  "new InitEntry(const i0.HtmlImport('q.html'), const i1.LibraryIdentifier(#q, 'null', 'lib/q.dart')),\n",
			want: Match{Path: "q.html", Package: EntryPointPackage(), Module: "lib/q.dart"},
		},
		{
			name: "package reference path",
			src:  "new InitEntry(const i0.HtmlImport('package:b/bar.html'), const i1.LibraryIdentifier(#b, null, 'web/index.dart')),\n",
			want: Match{Path: "package:b/bar.html", Package: EntryPointPackage(), Module: "web/index.dart"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := Extract(tt.src)
			if len(ex.Imports) != 1 {
				t.Fatalf("expected one import, got %d (%+v)", len(ex.Imports), ex)
			}
			if ex.Imports[0] != tt.want {
				t.Fatalf("got %+v, want %+v", ex.Imports[0], tt.want)
			}
		})
	}
}

func TestExtractNoMatches(t *testing.T) {
	src := "main() {\n  print('hello');\n}\n"
	ex := Extract(src)
	if len(ex.Imports) != 0 || len(ex.Leftovers) != 0 {
		t.Fatalf("expected empty extraction, got %+v", ex)
	}
	if got := Strip(src); got != src {
		t.Fatalf("strip changed annotation-free text:\n%q", got)
	}
}

func TestStripRemovesAllStrictMatches(t *testing.T) {
	stripped := Strip(bootstrapSample)

	if again := Extract(stripped); len(again.Imports) != 0 {
		t.Fatalf("strict matches survived strip: %+v", again.Imports)
	}
	if !strings.Contains(stripped, "computedPath") {
		t.Fatalf("loose-only occurrence must survive strip:\n%s", stripped)
	}
	if strings.Contains(stripped, "'foo.html'") || strings.Contains(stripped, "'bar.html'") {
		t.Fatalf("strict statements must be removed:\n%s", stripped)
	}
	// Surrounding code is untouched.
	for _, keep := range []string{"library app_bootstrap;", "initializers.addAll([", "i0.main();"} {
		if !strings.Contains(stripped, keep) {
			t.Fatalf("strip damaged surrounding text, missing %q:\n%s", keep, stripped)
		}
	}
}

func TestStripIsStableOnRestrippedText(t *testing.T) {
	once := Strip(bootstrapSample)
	twice := Strip(once)
	if once != twice {
		t.Fatalf("second strip changed text:\n first: %q\nsecond: %q", once, twice)
	}
}
