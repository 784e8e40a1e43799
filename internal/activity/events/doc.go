// Package events holds every payload schema the system writes, one Go type
// per (event kind, revision), and the static table of their decoders.
//
// A type is frozen once it has been released: adding or changing a field
// means declaring a new type with the next revision and adding it to
// Decoders, while the old type stays so existing history keeps rendering.
package events
