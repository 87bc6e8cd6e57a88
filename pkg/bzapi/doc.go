// Package bzapi is a client for the Bugzilla REST API (BzAPI flavour).
//
// Bugs, attachments and users are exposed as typed snapshots. Fields the server left out of a payload,
// such as a user's e-mail or an attachment's contents, are fetched on first access through the API
// handle the object was built with and kept for the lifetime of the object.
package bzapi
