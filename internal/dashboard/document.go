package dashboard

import (
	"errors"
	"fmt"
	"sync"

	"bluff-board/internal/web"
)

var ErrMissingRegion = errors.New("region not found")

// Document is the host the renderer writes into. Replace overwrites the inner content of
// every listed region as one unit, or writes nothing when any region is missing.
type Document interface {
	Replace(regions []web.RegionHTML) error
}

type MemoryDocument struct {
	mu      sync.Mutex
	regions map[string]string
	writes  int
}

// NewMemoryDocument creates a document holding the given regions, all empty.
func NewMemoryDocument(ids ...string) *MemoryDocument {
	regions := make(map[string]string, len(ids))
	for _, id := range ids {
		regions[id] = ""
	}
	return &MemoryDocument{regions: regions}
}

func (d *MemoryDocument) Replace(regions []web.RegionHTML) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, region := range regions {
		if _, ok := d.regions[region.ID]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingRegion, region.ID)
		}
	}
	for _, region := range regions {
		d.regions[region.ID] = region.HTML
	}
	d.writes++
	return nil
}

// Set seeds a region, creating it if needed.
func (d *MemoryDocument) Set(id, html string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.regions[id] = html
}

func (d *MemoryDocument) Inner(id string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	html, ok := d.regions[id]
	return html, ok
}

// Snapshot copies every region under one lock.
func (d *MemoryDocument) Snapshot() map[string]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]string, len(d.regions))
	for id, html := range d.regions {
		out[id] = html
	}
	return out
}

func (d *MemoryDocument) Writes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes
}
