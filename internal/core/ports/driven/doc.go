// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - PortfolioStore: Record tree persistence (XML file)
//   - EmbeddingService: Generates vector embeddings. The local
//     approximation adapter is always available, so semantic search never
//     depends on network reachability.
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - MirrorStore: Session snapshot cache of the record tree. Without it,
//     a missing portfolio file simply yields an empty tree.
//   - ConfigStore: Application configuration. Without it, built-in
//     defaults apply.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
