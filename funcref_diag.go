//go:build diagnostics

package orleans

// Diagnostics builds re-validate rehydrated predicates; see
// FilterReference.revalidate.
const diagnosticChecks = true
