// Package install implements the first-run flow: it refuses to run once a
// configuration record exists, verifies that server-side sessions persist
// across requests, offers the operator timezone and language choices, then
// derives and writes the configuration record and seeds the bookmark store.
//
// The flow is expressed over plain input records and returns an Outcome
// (redirect, render or error page) so it can be driven by any HTTP layer.
package install
