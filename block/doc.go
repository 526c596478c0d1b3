// Package block defines the semantic representation of composed chat input
// and the parser that derives it from a tagged buffer.
//
// A composed message is a sequence of blocks: runs of [Plain] text, atomic
// [Mention] tokens and atomic [CustomEmoji] tokens. Parsing is pure: it reads
// the buffer text and its tags and resolves tokens through the registries of
// tokens used so far.
package block
