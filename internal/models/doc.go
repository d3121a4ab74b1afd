// Package models defines the core domain records of the bill tracker.
//
// # Records
//
//   - User: an account plus the profile settings the clients read on start-up
//   - Category: a user-defined grouping for bills (six defaults per user)
//   - Bill: a recurring or one-time obligation anchored on its original due date
//   - Payment: a ledger entry asserting that one period of a bill was paid
//   - Reminder: how many days before a due date the owner wants to be warned
//   - Notification: a scheduled reminder waiting to be delivered
//
// Derived bill status (effective due date, paid/overdue flags) is not a
// record: it is computed on every read by the calculator package and is never
// persisted.
//
// # Conventions
//
//  1. Relationships use ID strings, never pointers.
//  2. Calendar dates (due dates, payment months) are time.Time values at
//     midnight UTC; use ParseDate/FormatDate at the edges.
//  3. Audit timestamps (CreatedAt, UpdatedAt) are Unix seconds.
//  4. Money is decimal.Decimal, never float64.
package models
