// Package codec reads and writes book collections as JSON, CSV, or SQLite
// snapshot files.
//
// Encoders operate on io.Writer and decoders on io.Reader; WriteFile and
// ReadFile add path handling and atomic replacement on top. Decoding is
// all-or-nothing: a decoder returns either every record or an error.
package codec
