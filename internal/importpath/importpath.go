// Package importpath resolves raw resource-import paths captured from a
// bootstrap script into canonical hrefs usable by the entry-point document.
//
// Paths are URL-style: forward slashes, "."/".." collapsed on join. A
// resolved path is rooted either under "packages/<pkg>/" or relative to the
// document's own directory.
package importpath

import (
	"fmt"
	"path"
	"strings"

	"github.com/dart-lang/web-components/internal/annotation"
)

const (
	// packagePrefix marks an already fully qualified import reference.
	packagePrefix = "package:"
	// packagesDir is where the build output materializes package assets.
	packagesDir = "packages"
	// libRoot is the conventional public module tree of a package.
	libRoot = "lib"
)

// CrossPackageError reports a relative import declared by an explicit
// foreign package from a module outside its library root. Such an import
// has no resolvable location in the build output.
type CrossPackageError struct {
	Package string
	Module  string
}

func (e *CrossPackageError) Error() string {
	return fmt.Sprintf("importpath: relative import declared by package %q in %q: module is outside %s/", e.Package, e.Module, libRoot)
}

// Resolve maps one raw import path to its canonical form.
//
// owner is the package that declared the import, modulePath the declaring
// module's path within that package, and rootPackage the package identity of
// the entry-point document. The first matching rule wins:
//
//  1. "package:..." references become "packages/..." verbatim.
//  2. An entry-point import declared outside lib/ resolves relative to the
//     declaring module's directory, minus its leading segment.
//  3. A foreign-package import declared outside lib/ is a CrossPackageError.
//  4. Anything under lib/ resolves under "packages/<pkg>/", where pkg is the
//     declaring package or, for entry-point imports, rootPackage.
func Resolve(rawPath string, owner annotation.DeclaringPackage, modulePath, rootPackage string) (string, error) {
	if strings.HasPrefix(rawPath, packagePrefix) {
		return packagesDir + "/" + strings.TrimPrefix(rawPath, packagePrefix), nil
	}

	dir := path.Dir(modulePath)
	segments := strings.Split(dir, "/")
	inLibRoot := segments[0] == libRoot
	subDir := ""
	if len(segments) > 1 {
		subDir = path.Join(segments[1:]...)
	}

	if !inLibRoot {
		if owner.SameAsEntryPoint() {
			return path.Join(subDir, rawPath), nil
		}
		return "", &CrossPackageError{Package: owner.Name(), Module: modulePath}
	}

	pkg := owner.Name()
	if owner.SameAsEntryPoint() {
		pkg = rootPackage
	}
	return path.Join(packagesDir, pkg, subDir, rawPath), nil
}
