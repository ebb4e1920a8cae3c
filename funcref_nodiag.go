//go:build !diagnostics

package orleans

const diagnosticChecks = false
