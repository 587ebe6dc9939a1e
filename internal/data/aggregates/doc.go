// Package aggregates implements the domain aggregate contracts on Postgres.
//
// Every write method owns its transaction boundary: validate outside the tx,
// lock the governing Part row first, mutate dependents, append the revision
// entry, and let MapError translate infrastructure failures into typed codes.
package aggregates
