// Package cache provides the fixed-capacity image metadata cache, keyed by
// resolved image URL. Eviction is purely capacity-based in insertion order —
// the oldest inserted entry goes first, and lookups do not refresh an entry's
// position. There is no TTL.
package cache
