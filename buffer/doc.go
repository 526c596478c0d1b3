// Package buffer implements the rich-text buffer behind a chat composer.
//
// The buffer is a linear UTF-8 text plus a parallel interval map of tags
// ([Span]). Offsets are byte offsets into the text and always fall on
// grapheme cluster boundaries. Ranges are half-open: [Start, End).
//
// A tag marks a run of characters as one atomic token: a [MentionTag] covers
// a mention's display text, an [EmojiTag] covers a single [Placeholder]
// character standing in for an image.
package buffer
