// Package repositories implements typed SQL access to the directory tables.
//
// Every repository is built on [DBTX], so the same code runs against a *sql.DB or inside a
// *sql.Tx when a job needs batch commits. Queries stick to the SQL subset shared by MySQL and
// SQLite (positional ? placeholders, UPPER, LIMIT), and timestamps are passed in by the caller
// so one run stamps every row with the same instant.
//
// Key Implementations:
//   - [ResourceRepository] : resource counts, the active-row timestamp refresh and the contact audit
//   - [LenderRepository] : lender name snapshot, inserts and description updates matched by UPPER(name)
//   - [AuditRepository] : audit_logs entries written after a completed run
//
// Rows are decoded into [models] structs immediately after each query.
package repositories
