// Package store defines the persistence abstractions of the application:
// store interfaces for series, occurrences, and the employee directory, the
// shared error taxonomy, and the transaction runner that gives every logical
// operation a single atomic scope.
package store
