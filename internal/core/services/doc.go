// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The Engine is the central service: it owns the in-memory indexes,
// decides which query strategies apply, merges their hits and ranks
// the results. Hydration of document content runs in the background
// so queries stay fast while content scoring improves over time.
package services
