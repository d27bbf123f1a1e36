// Package book defines the catalog record and its canonical mapping form.
//
// This package imports nothing internal. Every other package that handles
// records depends on it, so it stays free of I/O and logging.
//
// Key constraints:
//   - The mapping form always carries exactly the keys title, author, genre, year
//   - Year is an int in the model; coercion happens only in FromMap
//   - Case-insensitive comparisons go through Fold (NFC + full case folding)
package book
