// Package fusion merges the folder-derived classification signal with the
// externally produced AI suggestion into one authoritative decision with
// explicit provenance and tie-break rules.
package fusion
