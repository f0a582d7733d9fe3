// Package store provides durable keyed document storage for the practice
// ledger and the reward economy counters.
//
// Records are JSON documents grouped into named collections and addressed
// by a string key. Secondary lookups use SQLite's json_extract over the
// document body, so a collection can be queried by any top-level field
// without schema changes.
//
// Concurrency: the store serializes writes within one process (single
// writer connection). Across processes there is no coordination and the
// last writer wins; the engine documents this limitation rather than
// inventing a merge strategy.
package store
