// Package models defines the core domain records for the split ledger.
//
//   - User: an identity with a unique email
//   - Group: a named member set that transactions belong to
//   - Transaction: one shared expense paid by a group member
//   - Allocation: one member's owed share of a transaction
//
// The payer's own share of a transaction is implicit: it is the total minus
// the sum of the transaction's allocations, and is never stored as a row.
// Only debts owed back to the payer are recorded.
//
// Users and groups persist indefinitely once created. A transaction and its
// allocations are created together as one atomic unit and are immutable
// afterwards; there are no update or delete operations on them.
package models
