// Package credentialservice implements the voter credential manager inside
// the campus-election context.
//
// The module owns credential lifecycle orchestration (issue/grow-power/
// graduate), credential reads, and credential event production through
// outbox-backed workers. It keeps business rules in application/domain layers
// and isolates infrastructure concerns behind ports and adapters.
package credentialservice
