//go:build js && wasm

package dashboard

import (
	"fmt"
	"sync"
	"syscall/js"

	"bluff-board/internal/web"
)

// JSDocument writes regions into the browser DOM by element id.
type JSDocument struct {
	mu  sync.Mutex
	doc js.Value
}

func NewJSDocument() *JSDocument {
	return &JSDocument{doc: js.Global().Get("document")}
}

func (d *JSDocument) Replace(regions []web.RegionHTML) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	elements := make([]js.Value, len(regions))
	for i, region := range regions {
		el := d.doc.Call("getElementById", region.ID)
		if el.IsNull() || el.IsUndefined() {
			return fmt.Errorf("%w: %s", ErrMissingRegion, region.ID)
		}
		elements[i] = el
	}
	for i, region := range regions {
		elements[i].Set("innerHTML", region.HTML)
	}
	return nil
}
