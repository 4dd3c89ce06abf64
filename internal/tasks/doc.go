// package tasks implements the library sync controller.
//
// The core type is LibraryEngine, which owns the in-memory mirror of the
// user's songs and categories and orchestrates every mutation against the
// backing stores: optimistic favorite flips with rollback, save/delete with
// refetch, category fan-out rewrites, and CSV import/export. Long-running
// operations emit progress updates via channels for non-blocking status
// reporting to the CLI layer.
package tasks
