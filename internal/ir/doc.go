// Package ir defines the language-agnostic intermediate representation of
// exported functions and the data types that cross the native/managed
// boundary. The IR is built externally (by the source parser) and is
// read-only input to the generators.
//
// Every type knows three spellings of itself: its API representation (the
// shape hand-written native code sees), its wire representation per target
// (the shape that actually crosses the boundary), and an identifier-safe
// name used to derive helper function and wire struct names.
package ir
