// Package composer turns insertion requests and edits into buffer mutations
// and keeps derived state in step: the parsed block sequence, the token
// registries and the overlays of animated emoji.
//
// A Composer is owned by one goroutine, normally a Bubble Tea update loop.
// Image loads run as tea.Cmd values off that goroutine and report back with
// messages the owner passes to Update, so buffer mutation never happens
// concurrently.
//
// Deletions go through Guard before they reach the buffer: a deletion that
// touches a mention removes every span of that mention, never part of it.
package composer
