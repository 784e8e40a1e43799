// Package activity records immutable, versioned events about domain objects
// and reads them back as a paginated activity feed.
//
// Every stored Entry names the event kind and the payload revision it was
// written with. The Registry maps each (kind, revision) pair to exactly one
// Decoder, so entries written years ago stay readable after their payload
// schema has moved on: evolving a payload means adding a new revision and a
// new decoder, never editing an old one.
package activity
