// Package domain holds the pure core of the editor backend: owner
// identities and the access guard, project and template records, page
// state, the one-time materializer, the definition composer, and the
// structural schema validator. Nothing here performs I/O; persistence and
// transport live in the sibling storage and api packages.
package domain
