// Package imageload resolves emoji image references into decoded frames.
//
// The composer consumes a [Loader]; [Fetcher] is the default implementation
// for http(s) URLs and local files, and [Static] serves pre-fetched images.
// Load errors are reported to the caller, which treats them as absence.
package imageload
