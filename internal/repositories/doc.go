// Package repositories provides the SQLite persistence layer: the durable
// credential store backing the OAuth lifecycle, and the local cache of the
// saved album library.
//
// [CredentialRepository] implements auth.Store over a single key/value
// table. Each Set is one upsert, so the credential bundle (serialized as
// one value by the auth package) is always replaced atomically.
//
// [AlbumRepository] holds the results of `vinyl library sync` for offline
// listing.
package repositories
