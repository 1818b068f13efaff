/*
Package persistence holds the session codecs used by byte-oriented stores.

A Codec turns a domain.Session into the payload a backend keeps. JSONCodec is
the plain encoding; NewEncryptedCodec seals it with AES-256-GCM and supports key
rotation through fallback keys, so sessions written under an old key stay
readable until they expire.
*/
package persistence
