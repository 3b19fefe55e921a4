// Package transform binds one bootstrap script artifact to one entry-point
// document artifact and rewrites both: resource-import annotations are
// stripped from the script, their paths resolved, and one import link per
// distinct resolved path appended to the document head. Both artifacts are
// re-emitted under their original identifiers.
package transform

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dart-lang/web-components/internal/annotation"
	"github.com/dart-lang/web-components/internal/asset"
	"github.com/dart-lang/web-components/internal/htmldoc"
	"github.com/dart-lang/web-components/internal/importpath"
	"github.com/dart-lang/web-components/internal/store"
)

// relImport marks a link element as a resource import.
const relImport = "import"

// Source supplies input artifacts by identifier. A Fetch that reports
// store.ErrNotFound means the artifact never appeared.
type Source interface {
	Fetch(ctx context.Context, id asset.ID) (asset.Artifact, error)
}

// Sink accepts output artifacts, overwriting any previous artifact stored
// under the same identifier.
type Sink interface {
	Emit(ctx context.Context, a asset.Artifact) error
}

// MissingInputError reports that one of the two expected inputs never
// appeared. Nothing is emitted for that invocation.
type MissingInputError struct {
	ID asset.ID
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("transform: expected input %s never appeared", e.ID)
}

// Transformer rewrites one configured script/document pair. The pair is
// fixed at construction; Apply may be called concurrently for independent
// invocations.
type Transformer struct {
	cfg    Config
	script asset.ID
	page   asset.ID
	logger Logger
}

// New validates cfg and builds a Transformer. A nil logger falls back to
// StdLogger.
func New(cfg Config, logger Logger) (*Transformer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = StdLogger{}
	}
	return &Transformer{
		cfg:    cfg,
		script: asset.NewID(cfg.Package, cfg.BootstrapFile),
		page:   asset.NewID(cfg.Package, cfg.HTMLEntryPoint),
		logger: logger,
	}, nil
}

// Inputs returns the two artifact identifiers this instance is bound to.
func (t *Transformer) Inputs() (script, page asset.ID) {
	return t.script, t.page
}

// Apply runs one invocation: fetch both inputs, rewrite both texts, emit
// both outputs. Fatal errors abort before anything is emitted; import policy
// violations and unrecognized annotations are logged and skipped unless
// StrictImports is set.
func (t *Transformer) Apply(ctx context.Context, src Source, sink Sink) error {
	script, page, err := t.collect(ctx, src)
	if err != nil {
		return err
	}

	ex := annotation.Extract(script.Text)
	for _, leftover := range ex.Leftovers {
		t.logger.Warnf("%s: annotation argument is not a raw string, skipping: %s", t.script, leftover)
	}

	hrefs, err := t.resolveAll(ex.Imports)
	if err != nil {
		return err
	}

	doc, err := htmldoc.Parse(page.Text)
	if err != nil {
		return fmt.Errorf("transform: parse %s: %w", t.page, err)
	}
	for _, href := range hrefs {
		doc.AppendHeadLink(relImport, href)
	}
	rendered, err := doc.Render()
	if err != nil {
		return fmt.Errorf("transform: render %s: %w", t.page, err)
	}

	if err := sink.Emit(ctx, asset.Artifact{ID: t.script, Text: annotation.Strip(script.Text)}); err != nil {
		return fmt.Errorf("transform: emit %s: %w", t.script, err)
	}
	if err := sink.Emit(ctx, asset.Artifact{ID: t.page, Text: rendered}); err != nil {
		return fmt.Errorf("transform: emit %s: %w", t.page, err)
	}
	return nil
}

// collect fetches the script and the document concurrently and waits for
// both. This is the invocation's only suspension point before emission.
func (t *Transformer) collect(ctx context.Context, src Source) (script, page asset.Artifact, err error) {
	var (
		wg        sync.WaitGroup
		scriptErr error
		pageErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		script, scriptErr = src.Fetch(ctx, t.script)
	}()
	go func() {
		defer wg.Done()
		page, pageErr = src.Fetch(ctx, t.page)
	}()
	wg.Wait()

	if scriptErr != nil {
		return asset.Artifact{}, asset.Artifact{}, t.fetchError(t.script, scriptErr)
	}
	if pageErr != nil {
		return asset.Artifact{}, asset.Artifact{}, t.fetchError(t.page, pageErr)
	}
	return script, page, nil
}

func (t *Transformer) fetchError(id asset.ID, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &MissingInputError{ID: id}
	}
	return fmt.Errorf("transform: fetch %s: %w", id, err)
}

// resolveAll maps extracted annotations to a sorted, deduplicated list of
// canonical hrefs. Cross-package violations are logged and dropped, or
// abort the invocation under StrictImports.
func (t *Transformer) resolveAll(imports []annotation.Match) ([]string, error) {
	seen := make(map[string]struct{}, len(imports))
	hrefs := make([]string, 0, len(imports))
	for _, m := range imports {
		href, err := importpath.Resolve(m.Path, m.Package, m.Module, t.page.Package)
		if err != nil {
			var cpe *importpath.CrossPackageError
			if errors.As(err, &cpe) && !t.cfg.StrictImports {
				t.logger.Errorf("%s: dropping import %q: %v", t.script, m.Path, err)
				continue
			}
			return nil, fmt.Errorf("transform: %s: %w", t.script, err)
		}
		if _, dup := seen[href]; dup {
			continue
		}
		seen[href] = struct{}{}
		hrefs = append(hrefs, href)
	}
	sort.Strings(hrefs)
	return hrefs, nil
}
