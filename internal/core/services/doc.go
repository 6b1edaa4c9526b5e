// Package services implements the core business logic for Folio search.
//
// Services implement the driving ports and depend only on domain types
// and driven ports. The vector index, query router, and result
// formatting all live here; embedding and persistence are adapters.
package services
