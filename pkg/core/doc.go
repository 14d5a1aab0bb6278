// Package core defines the shared pure-data language of schemacat.
//
// This package contains:
//   - Dialect configuration (DialectConfig, IdentifierConfig)
//   - Inspection configuration (InspectConfig)
//
// The rule: pkg/core imports ONLY the stdlib. All other packages depend
// on core, not the reverse, so parser-side and database-side code can
// share dialect data without import cycles.
package core
