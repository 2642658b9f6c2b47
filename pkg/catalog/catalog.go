package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/censo-resguardo/censo-backend/pkg/survey/types"
)

var (
	// ErrCatalogUnavailable is returned when the question source cannot be
	// read or parsed at all. Starting a survey is not possible in that
	// case; the caller may retry the load.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrNotLoaded is returned by Questions before the first successful
	// Load.
	ErrNotLoaded = errors.New("catalog not loaded")
)

// Row is one raw entry of the question source: free-text column names
// mapped to string values.
type Row map[string]string

// RowSource supplies the raw catalog rows. The source format (CSV asset,
// embedded literal, ...) is the supplier's concern.
type RowSource interface {
	Rows() ([]Row, error)
}

// SliceSource serves an in-memory row list, used for embedded catalogs and
// tests.
type SliceSource []Row

func (s SliceSource) Rows() ([]Row, error) {
	return s, nil
}

// Columns names the catalog source columns the loader reads. Defaults
// match the census questionnaire CSV.
type Columns struct {
	ID       string
	Prompt   string
	Category string
	Required string
}

func DefaultColumns() Columns {
	return Columns{
		ID:       "No",
		Prompt:   "Pregunta",
		Category: "Categorías de respuesta (predefinidas si aplica)",
		Required: "Se Recoje SI NO (Precargada), SE VERIFICA - COMPLEMENTA",
	}
}

// Loader turns raw rows into typed questions. Load parses once and caches;
// the loader starts in an explicit "not loaded" state.
type Loader struct {
	mu        sync.Mutex
	source    RowSource
	columns   Columns
	questions []types.Question
	loaded    bool
}

func NewLoader(source RowSource) *Loader {
	return NewLoaderWithColumns(source, DefaultColumns())
}

func NewLoaderWithColumns(source RowSource, columns Columns) *Loader {
	return &Loader{
		source:  source,
		columns: columns,
	}
}

// Load parses the question source. A second call returns the cached result
// without re-parsing.
func (l *Loader) Load() ([]types.Question, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return l.questions, nil
	}

	rows, err := l.source.Rows()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	questions := make([]types.Question, 0, len(rows))
	seenIDs := map[string]bool{}
	for _, row := range rows {
		prompt := strings.TrimSpace(row[l.columns.Prompt])
		if prompt == "" {
			// malformed row, skipped, never fatal
			continue
		}

		order := len(questions) + 1
		id := strings.TrimSpace(row[l.columns.ID])
		if id == "" || seenIDs[id] {
			if id != "" {
				slog.Warn("duplicate question id in catalog, using positional id", slog.String("id", id))
			}
			id = "q" + strconv.Itoa(order)
		}
		seenIDs[id] = true

		kind, options := InferKind(prompt, row[l.columns.Category])

		questions = append(questions, types.Question{
			ID:       id,
			Order:    order,
			Prompt:   prompt,
			Kind:     kind,
			Options:  options,
			Required: parseRequired(row[l.columns.Required]),
		})
	}

	l.questions = questions
	l.loaded = true
	return l.questions, nil
}

// Questions returns the cached catalog, ErrNotLoaded before the first
// successful Load.
func (l *Loader) Questions() ([]types.Question, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.loaded {
		return nil, ErrNotLoaded
	}
	return l.questions, nil
}

// Find returns the catalog question with the given id.
func (l *Loader) Find(id string) (types.Question, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, q := range l.questions {
		if q.ID == id {
			return q, true
		}
	}
	return types.Question{}, false
}

// parseRequired reads the per-row "must collect" marker; questions are
// required unless the marker explicitly says NO.
func parseRequired(marker string) bool {
	return !strings.HasPrefix(strings.ToLower(strings.TrimSpace(marker)), "no")
}
