package tui

import (
	"braid/internal/board"
	"braid/internal/config"
	"braid/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive board editor on an open board. Blocks until the
// user quits.
func Run(b *board.Board, cfg config.Config) error {
	applyGlyphPreference(cfg.Glyphs)
	if !hasColor() {
		// Monochrome terminals tend to come with fonts that also miss the
		// board glyphs.
		setGlyphs(glyphSetASCII)
	}

	var changes <-chan struct{}
	w, err := watch.New(b.Dir())
	if err == nil {
		if err := w.Start(); err == nil {
			changes = w.Changes
			defer w.Stop()
		}
	}
	// Without a watcher the board still works; r reloads by hand.

	m := newAppModel(b, cfg, changes)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
