// Package vault stores third-party account credentials so they can be
// released only to an owner who already passed an identity check.
//
// # Precondition
//
// Every operation takes an owner string that the caller has already
// authenticated (see internal/identity). The vault performs no identity
// verification of its own: integrators must never pass an owner that did
// not come out of a successful identity.Gate check.
//
// # On-disk layout
//
// Each record is split across two directories that should live on
// different storage:
//
//	<credentials>/<platform>_<owner>.enc   IV(16) || ciphertext(16*N) || HMAC-SHA256(32)
//	<keys>/<platform>_<owner>.key          raw 16-byte AES-128 key
//
// platform is lower-cased. Every record has its own freshly generated key,
// so neither directory alone discloses anything.
//
// # Consistency
//
// Writes are staged to hidden temp files, fsynced and renamed into place;
// the key rename is the commit point. A record whose key or blob is
// missing reads as ErrIncomplete (which is also ErrNotFound) and is never
// reported as present. Sweep removes such leftovers. Within a process,
// operations on the same record are serialised by a striped lock.
//
// # Consumers
//
// Get is the only way a decrypted secret leaves the vault. Callers should
// use it immediately, call Credential.Wipe, and never persist it.
package vault
