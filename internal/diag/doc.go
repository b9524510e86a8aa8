// Package diag defines the diagnostic model shared by the sheet loader, the
// timeline builder and the name index.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for data defects found in a
//     token sheet (overlapping version intervals, unknown models, colliding
//     names) so one bad token never aborts the rest of the corpus.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     findings without coupling to storage or formatting layers.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Subject – the token the finding is about, e.g. "token 0xBB31"; empty for
//     sheet-level findings.
//   - Span – byte range into the sheet document, when known.
//   - Notes – optional secondary messages, e.g. the other record of an overlap.
//
// Notes should add new context rather than repeat the diagnostic message.
//
// # Emitting diagnostics
//
// Producers report through a diag.Reporter so emission stays decoupled from
// storage. The timeline builder constructs a ReportBuilder via
// NewReportBuilder (or ReportError/ReportWarning) and chains WithNote before
// calling Emit. BagReporter aggregates diagnostics into a Bag, which supports
// sorting, deduplication and merging; DedupReporter suppresses repeats such as
// the same unknown model named by every record of a token.
//
// # Consumers
//
//   - internal/diagfmt renders Diagnostics as pretty, short or JSON output.
//   - internal/registry collects one Bag per token and merges them in token
//     order so output is deterministic regardless of build parallelism.
//
// Keep the data model deterministic and side-effect free so diagnostics can be
// serialised for caching and asserted against in tests.
package diag
