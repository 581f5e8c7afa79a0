// Package profiles provides the domain types of the company profile console:
// companies and their industry profile, financial statement types and the
// chart data produced for financial metrics.
//
// The core functionalities include:
//   - Company records: the Company and IndustryProfile types as exchanged with
//     the remote API, plus helpers to prepare them for editing and to merge
//     partial edits into an update payload.
//   - Option tables: the coded values accepted by the API for enumerated fields
//     and their human labels.
//   - Metric catalog: the financial metrics that can be charted, and the
//     computation of chart series (values, ratios and year over year growth).
//   - Comparison: a property by company table used to compare several
//     companies side by side.
//
// This package serves as the foundation of the `cpc` command-line tool, the
// api client packages and the development server. It holds no state: all
// durable data lives behind the remote API.
package profiles
