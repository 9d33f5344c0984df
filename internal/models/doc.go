// Package models defines the core domain models for FinanceZZ.
//
// # Ownership
//
// Every user-owned record (transactions, debts, contacts, reminders, recurring
// templates, budgets, goals and custom categories) carries a UserID. Stores scope
// reads and writes by that ID, so a record that belongs to someone else is
// indistinguishable from one that does not exist.
//
// # Conventions
//
//   - IDs are UUID strings.
//   - Timestamps are Unix seconds (int64). Optional timestamps are *int64.
//   - Money is decimal.Decimal. Amounts on ledger records are always positive; the
//     direction of money lives in an enum (TransactionType, DebtDirection).
//   - Relationships use ID strings instead of pointers.
package models
