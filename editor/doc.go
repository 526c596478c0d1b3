// Package editor provides a Bubble Tea chat input backed by a
// composer.Composer.
//
// The package is responsible for key and mouse handling, soft-wrapped cell
// layout, styled rendering of mentions and emoji, compositing of animated
// emoji overlays, auto-growing height and host integration hooks (submit,
// block and focus change notifications).
package editor
