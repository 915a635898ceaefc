// Package docnum is the document numbering authority for doctrack.
//
// Every project carries a single NumberingConfig row holding a set of named
// sequence counters, one per discipline or per discipline+sub-code pair.
// This package mints collision-free document numbers from those counters
// and provides pure helpers to format, validate, and parse numbers.
//
// # Number Format
//
// A document number is built from the project code, a discipline code, an
// optional sub-code, and a zero-padded sequence number, joined by the
// project's separator:
//
//	PRJ-01-005      project PRJ, discipline 01, sequence 5
//	PRJ-01-A-005    project PRJ, discipline 01, sub-code A, sequence 5
//
// Sub-code counters are fully independent from the bare discipline
// counter: incrementing "01-A" never affects "01" or "01-B".
//
// # Concurrency
//
// Generate is the one operation in doctrack with a genuine concurrency
// hazard: two callers racing on the same counter key must never receive
// the same sequence value. The increment is a single transactional
// read-modify-write on the config row, guarded by a row lock; conflicts
// are retried by the shared database layer, not here. Counter values are
// never cached between calls.
//
// PeekNextSequence exists for UI previews only. It is deliberately not
// atomic with any later Generate call and must never be relied upon for
// uniqueness.
package docnum
