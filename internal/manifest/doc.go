// Package manifest reads and rewrites the project manifest (package.json).
//
// The document is decoded into an order-preserving tree so that rewriting a
// handful of keys leaves the rest of the file as the author wrote it. Changes
// are expressed as a closed set of typed mutations (SetRepositoryURL,
// SetPrivate, SetName); each one is applied by a Writer as a full
// read-modify-write of the file.
package manifest
