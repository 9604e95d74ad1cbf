// Package domain contains the core business entities, value objects, and
// domain logic of the application: task series and their materialized
// occurrences, cadence and task-kind normalization, and the recurrence
// expansion that turns a cadence definition into concrete due dates.
// It is independent of any specific infrastructure or delivery mechanism.
package domain
