package dashboard

import (
	"context"
	"fmt"

	"bluff-board/internal/state"
	"bluff-board/internal/web"
)

type StateSource interface {
	FetchState(ctx context.Context) (state.GameState, error)
}

// StateRenderer runs one poll cycle: fetch, decode, render both regions, write.
type StateRenderer struct {
	source StateSource
	doc    Document
}

func NewStateRenderer(source StateSource, doc Document) *StateRenderer {
	return &StateRenderer{source: source, doc: doc}
}

// Refresh leaves the document untouched when any step fails.
func (r *StateRenderer) Refresh(ctx context.Context) error {
	st, err := r.source.FetchState(ctx)
	if err != nil {
		return fmt.Errorf("fetch state: %w", err)
	}
	regions, err := web.RenderRegions(ctx, st)
	if err != nil {
		return fmt.Errorf("render state: %w", err)
	}
	if err := r.doc.Replace(regions); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}
