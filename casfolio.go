// Package casfolio extracts mutual fund transaction records from CAS
// (Consolidated Account Statement) PDF files, resolves each record against
// the AMFI scheme reference table, and exports the result as CSV, JSON,
// XLSX, or an aligned text table.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., pdf/, sqlite/, fuzzy/).
package casfolio
