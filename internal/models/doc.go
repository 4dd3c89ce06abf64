// Package models defines domain entities and persistence interfaces for the karalib song library.
//
// The package contains two categories of types:
//
// 1. Library records synced between memory and the store:
//   - [Song] : A karaoke song with artists, styles and category names
//   - [Category] : A user-defined folder referenced by songs *by name*
//
// 2. Account entities backing authentication:
//   - [User] : Email + password hash account record
//   - [Session] : Token-based login session with expiry
//
// Song.Categories holds category names rather than ids. Renaming or deleting
// a category therefore fans out to every referencing song; that logic lives
// in the tasks package.
package models
