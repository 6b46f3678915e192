// Package classify infers technique ids from folder naming conventions.
//
// Four ranked strategies run in order, first match wins: a leading dotted
// number ("2.1.3 Doorvragen"), a phase-level prefix ("Fase 2"), descriptive
// name/tag containment against the vocabulary, and finally the same numeric
// and phase checks retried on the folder's ancestors. Each result carries
// the strategy's method tag and base confidence so downstream fusion can
// weigh it against the AI suggestion.
package classify
