package analysis

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"

	"olistcli/pkg/contracts/domain"
)

// ErrNoData is returned by a reporter when no record qualifies for it. No
// chart is written in that case.
var ErrNoData = stderrors.New("no eligible records")

// Reporter produces one summary and one chart from the processed records.
// Implementations must not modify records.
type Reporter interface {
	// ID is a stable identifier, also used as worksheet name
	ID() string
	// Title describes the report in progress output
	Title() string
	// Filename is the chart file name inside the analysis directory
	Filename() string
	// Generate computes the report and writes the chart to outPath
	Generate(ctx context.Context, records []domain.OrderRecord, outPath string) (Summary, error)
}

// Summary is the textual and tabular result of one report
type Summary struct {
	ReportID string
	Title    string
	Lines    []string
	Headers  []string
	Rows     [][]string
	Eligible int
	Chart    string
}

// String renders the summary lines as printed to the console
func (s Summary) String() string {
	var b strings.Builder
	for _, l := range s.Lines {
		b.WriteString("  - ")
		b.WriteString(l)
		b.WriteString("\n")
	}
	return b.String()
}

// Registry keeps reporters in registration order
type Registry struct {
	mu        sync.RWMutex
	reporters map[string]Reporter
	order     []string
}

// NewRegistry creates an empty reporter registry
func NewRegistry() *Registry {
	return &Registry{
		reporters: make(map[string]Reporter),
	}
}

// Register adds a reporter. IDs must be unique.
func (r *Registry) Register(reporter Reporter) error {
	if reporter == nil {
		return fmt.Errorf("cannot register nil reporter")
	}

	id := reporter.ID()
	if id == "" {
		return fmt.Errorf("reporter ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reporters[id]; exists {
		return fmt.Errorf("reporter with ID %s already registered", id)
	}

	r.reporters[id] = reporter
	r.order = append(r.order, id)
	return nil
}

// List returns all reporters in registration order
func (r *Registry) List() []Reporter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reporters := make([]Reporter, 0, len(r.order))
	for _, id := range r.order {
		reporters = append(reporters, r.reporters[id])
	}
	return reporters
}
