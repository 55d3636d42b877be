package extractors

import (
	"path/filepath"
	"strings"

	"github.com/ankitghanghas07/semantic-search/internal/core/ports/driven"
	"github.com/ankitghanghas07/semantic-search/internal/extractors/pdf"
	"github.com/ankitghanghas07/semantic-search/internal/extractors/plaintext"
)

// Registry maps file extensions to extractors.
type Registry struct {
	byExt    map[string]driven.Extractor
	fallback driven.Extractor
}

// NewRegistry creates a registry with the default extractors: PDF for
// .pdf files and a verbatim plaintext read for everything else.
func NewRegistry() *Registry {
	r := &Registry{
		byExt:    make(map[string]driven.Extractor),
		fallback: plaintext.New(),
	}
	r.Register(pdf.New())
	r.Register(plaintext.New())
	return r
}

// Register adds an extractor for each extension it declares.
func (r *Registry) Register(e driven.Extractor) {
	for _, ext := range e.Extensions() {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// ForFile returns the extractor for the file's extension, or the
// plaintext fallback when the extension is unknown.
func (r *Registry) ForFile(path string) driven.Extractor {
	ext := strings.ToLower(filepath.Ext(path))
	if e, ok := r.byExt[ext]; ok {
		return e
	}
	return r.fallback
}
