// Package electionservice implements the credential-weighted election inside
// the campus-election context: candidate registration gated by credential
// standing, the weighted vote ledger, and the terminal tally that converts
// the ledger into immutable results.
//
// The module keeps candidates, votes, and results behind one repository so a
// cast vote and its candidate increment commit as a single unit, and the
// tally consumes both collections atomically. Credential standing arrives as
// a projection maintained by an event consumer.
package electionservice
