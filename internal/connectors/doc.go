// Package connectors provides document source implementations behind
// the driven ports. Each connector knows how to enumerate, read and
// watch documents for one source type; the filesystem connector is the
// only one a local vault needs.
package connectors
