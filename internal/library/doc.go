// Package library owns the in-memory book collection and keeps it in sync
// with its canonical files.
//
// A Library is constructed with two canonical paths, one JSON and one CSV.
// Open restores from the JSON file if it exists, otherwise from the CSV
// file, otherwise starts empty. Every mutation (Add, Remove, Import)
// rewrites the canonical file in the configured format before returning.
//
// # Policies
//
//   - Loading is all-or-nothing: a file that fails to parse leaves the
//     collection as it was and returns *PersistenceError.
//   - A mutation whose rewrite fails is rolled back in memory, so the
//     collection always matches the last successful write.
//   - Titles are not unique. Remove deletes only the first case-insensitive
//     match.
//
// A Library is not safe for concurrent use.
package library
