// Package block loads, inspects, and extracts content for blocks.
//
// A block is a reusable content component identified by name: a
// directory in a content source holding a script (<name>.js), a
// stylesheet (<name>.css), and optional README documentation. The
// package materializes blocks from a source.Source, derives a
// structural Analysis from their script and stylesheet text, and
// extracts live instance markup from published page HTML.
//
// # Analysis
//
// Analyze reads a block's script and stylesheet (concurrently, each
// best-effort) and derives:
//
//   - a one-line description from the leading /** doc comment
//   - the default-export function name (informational)
//   - the set of CSS class names observed in the stylesheet
//   - variant names from compound selectors (.name.variant)
//   - structure flags from well-known class-name patterns
//
// Absent files simply clear the corresponding HasJS/HasCSS flag; they
// are never errors.
//
// # Content extraction
//
// ExtractContent scans published page HTML for styled instances of a
// block and returns the inner markup of the first instance of each
// variant. The scan treats HTML as a flat token stream: an instance's
// boundaries are found by counting <div> opens against </div> closes
// from its opening tag until the depth returns to zero. Malformed
// markup can miscount; that approximation is part of the contract.
// FindContent layers candidate-page fallback on top: each published
// page path is fetched in order and the first page containing any
// instance wins.
//
// # Validation
//
// Block names must match ^[a-z][a-z0-9-]*$. Every entry point
// validates the name before touching the source, so an illegal name
// is rejected without I/O.
package block
