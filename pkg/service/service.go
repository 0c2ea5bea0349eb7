// Package service groups the business logic of the payout back office.
// It is organized into sub-packages:
// - admin: authorization gate, payout approval and ledger views
// - auth: authentication and token issuance
// - user: user management
package service
