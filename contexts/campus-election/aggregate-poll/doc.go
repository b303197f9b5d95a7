// Package aggregatepoll implements the self-contained unweighted poll model
// inside the campus-election context.
//
// Unlike the credential-weighted election, a poll is one shared record
// bundling candidate names, a parallel vote-counter array, and an explicit
// active/closed lifecycle. Votes are flat +1 increments by candidate index,
// closing is owner-only and permanent, and results are readable only after
// the poll closes.
package aggregatepoll
