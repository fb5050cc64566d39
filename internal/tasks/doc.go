// Package tasks runs the VA directory maintenance jobs with real-time progress reporting.
//
// # Jobs
//
//  1. [ResourceRefresher.Run] : weekly resource refresh
//     - Counts all resources
//     - Sets updatedAt on every active resource to the run time, in one transaction
//     - Lists up to 20 active resources that have neither phone nor URL
//     - Counts active resources
//
//  2. [LenderImporter.Run] : monthly lender import
//     - Loads the uppercase names of existing lenders
//     - Inserts unseen lenders and refreshes the description of known ones
//     - Commits every [ImportOpts.BatchSize] rows
//     - Counts lenders after the final commit
//
// Rows for the importer come from [workbook.ReadLenderReport]; the derivations (display name,
// lender type, URL, specialist flag, description) live in [models.NewLenderRecord].
//
// # Progress Reporting
//
// Jobs take an optional progress channel. The [ProgressUpdate] struct carries the phase, step counters
// and a message. Sends never block; a full channel drops the update.
//
// # Audit Log
//
// With [JobOpts.Audit] set, a completed run writes one audit_logs row whose detail holds the run ID
// and counters. Aborted runs and dry runs are not recorded.
//
// # Clock
//
// [JobOpts.Now] supplies the run time. Every row written by a run carries the same timestamp.
package tasks
