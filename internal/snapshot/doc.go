// Package snapshot stores an ordered book collection in a single SQLite file.
//
// Snapshots are an interchange format: the library exports to and imports
// from them, but never uses one as its canonical store.
//
// # Layout
//
//   - books: one row per record, position INTEGER PRIMARY KEY carries
//     collection order
//   - PRAGMA user_version tracks the schema version
//
// # Database Configuration
//
//   - journal_mode=DELETE: no -wal/-shm side files, the snapshot stays one file
//   - synchronous=FULL: the file is complete once Close returns
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON
package snapshot
