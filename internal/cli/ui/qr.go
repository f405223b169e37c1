package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/mdp/qrterminal/v3"
)

// QRRenderer draws pairing codes as half-block QR codes. WhatsApp rotates the
// code every few seconds, so each call draws a fresh one below the last.
type QRRenderer struct {
	w      io.Writer
	before func()

	mu    sync.Mutex
	shown int
}

// NewQRRenderer returns a renderer writing to w. before, if non-nil, runs
// ahead of every code (used to stop an active spinner).
func NewQRRenderer(w io.Writer, before func()) *QRRenderer {
	return &QRRenderer{w: w, before: before}
}

// RenderChallenge draws code with scanning instructions.
func (r *QRRenderer) RenderChallenge(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.before != nil {
		r.before()
	}
	r.shown++
	if r.shown == 1 {
		fmt.Fprintf(r.w, "\n  %s\n", StyleBold.Render("Scan this QR code with WhatsApp"))
		fmt.Fprintf(r.w, "  %s\n\n", StyleHint.Render("Settings "+SymbolArrow+" Linked devices "+SymbolArrow+" Link a device"))
	} else {
		fmt.Fprintf(r.w, "\n  %s\n\n", StyleHint.Render("Code refreshed, scan the new one:"))
	}
	qrterminal.GenerateHalfBlock(code, qrterminal.L, r.w)
}

// Shown returns how many codes have been drawn.
func (r *QRRenderer) Shown() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shown
}
