package transform

import (
	"errors"
	"fmt"
	"strings"
)

const (
	scriptExt = ".dart"
	docExt    = ".html"
)

// ConfigError reports one rejected configuration value.
type ConfigError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("transform: config %s = %q: %s", e.Field, e.Value, e.Reason)
}

// Config binds one transformer instance to its artifact pair. Package is the
// root package identity of the entry point; the two paths name the bootstrap
// script and the document within that package.
//
// StrictImports promotes cross-package import violations from logged errors
// to a fatal apply error.
type Config struct {
	Package        string
	BootstrapFile  string
	HTMLEntryPoint string
	StrictImports  bool
}

// Validate checks every field and reports all violations together. A
// Transformer is never constructed from an invalid Config.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Package) == "" {
		errs = append(errs, &ConfigError{Field: "package", Value: c.Package, Reason: "root package name is required"})
	} else if strings.Contains(c.Package, "|") {
		errs = append(errs, &ConfigError{Field: "package", Value: c.Package, Reason: "must not contain the artifact id separator"})
	}
	errs = append(errs, checkArtifactPath("bootstrap_file", c.BootstrapFile, scriptExt)...)
	errs = append(errs, checkArtifactPath("html_entry_point", c.HTMLEntryPoint, docExt)...)
	return errors.Join(errs...)
}

func checkArtifactPath(field, value, ext string) []error {
	if strings.TrimSpace(value) == "" {
		return []error{&ConfigError{Field: field, Value: value, Reason: "a path is required"}}
	}
	var errs []error
	if !strings.HasSuffix(value, ext) {
		errs = append(errs, &ConfigError{Field: field, Value: value, Reason: "must end in " + ext})
	}
	if strings.Contains(value, "|") {
		errs = append(errs, &ConfigError{Field: field, Value: value, Reason: "must not contain the artifact id separator"})
	}
	return errs
}
