// Package filesystem connects a vault rooted in a local directory tree
// to the engine. A Provider walks the tree and reads note files; a
// Watcher translates fsnotify events into document changes, pairing
// rename halves into a single Renamed change.
package filesystem
