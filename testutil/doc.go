// Package testutil provides seeded, reproducible randomness helpers for
// tests across the module.
package testutil
