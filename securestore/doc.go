// Package securestore defines the credential persistence boundary used by the
// session engine and ships three interchangeable backends.
//
// The engine only ever stores two opaque strings (the access and refresh
// tokens) under fixed keys. [Store] is the seam: mobile or desktop embedders
// bind it to the platform keychain, tests use [Memory], headless deployments
// can use [File] (encrypted at rest) or [Redis].
//
// All backends must return [ErrNotFound] for absent keys so the engine can
// distinguish "logged out" from a storage failure.
package securestore
