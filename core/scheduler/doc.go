// Package scheduler implements the weekly study-time allocator.
// It places homework and exam revision into a seven-day window under a
// daily minute budget, validates the result and redistributes the time of
// missed sessions. Every operation is a pure function over an explicit
// Capacity value; diagnostics are returned, never logged.
package scheduler
