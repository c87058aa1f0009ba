// Package tasks implements long-running library operations.
//
// The core abstraction is [LibraryEngine], which walks the user's saved
// album library page by page under a rate limit and persists it into the
// local cache. Operations emit progress updates via channels for
// non-blocking status reporting to the CLI layer.
package tasks
