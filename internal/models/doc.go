// Package models defines the directory entities touched by the maintenance jobs and the pure
// transformations the lender importer applies to each spreadsheet row.
//
// The package contains two categories of types:
//
// 1. Persisted records, decoded from and encoded to the directory tables
//   - [Resource] : a VA benefit resource (resources table)
//   - [Lender] : a VA-approved mortgage lender (lenders table)
//   - [AuditEntry] : one row of the audit_logs table
//
// 2. Import payloads, produced from the VA lender loan volume report
//   - [LenderRow] : a raw spreadsheet row (name and loan count)
//   - [LenderRecord] : the derived insert/update payload for one row
//
// Lender derivations ([TitleCase], [ClassifyLenderType], [KnownURL], [IsVASpecialist],
// [LenderDescription]) are pure functions over the raw name and loan count.
package models
