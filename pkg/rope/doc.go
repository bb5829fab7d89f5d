// Package rope provides a balanced rope for character-indexed text editing.
//
// A rope is a binary tree whose leaves hold bounded UTF-8 chunks and whose
// internal nodes cache aggregate metrics (bytes, characters, newlines) of
// their subtree. Positions in the public API are character indices: a
// character is one Unicode scalar value, and an invalid UTF-8 byte counts as
// one character, the same way utf8.DecodeRuneInString steps over it.
//
// Key properties:
//   - O(log n) conversion between character, byte and line coordinates
//   - O(log n) insertion and removal via split and AVL join
//   - O(1) Clone through structural sharing; nodes are never mutated
//   - Streaming access through Cursor, which implements io.RuneReader
//
// Lines are separated by '\n' only. A rope always has at least one line, so
// LenLines is the newline count plus one.
//
// Basic usage:
//
//	r := rope.FromString("hello world")
//	r.Insert(5, ",")    // "hello, world"
//	r.Remove(0, 7)      // "world"
//	text := r.String()  // "world"
package rope
