// Package domain contains the core business entities for Folio.
//
// The record tree (Portfolio -> Product -> goals/plans/notes/metrics)
// is owned by the portfolio store and consumed read-only by the search
// core. Vector entries and search results are the search core's own
// types. Domain types have no dependencies on adapters or frameworks.
package domain
