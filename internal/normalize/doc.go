// Package normalize converts loosely structured tabular financial data into
// a canonical shape. It classifies tables into known financial formats by
// inspecting column names, cleans locale-ambiguous numeric strings, and runs
// a configurable transformation pipeline (unpivot, debit/credit merge, sign
// inversion, column renaming).
//
// The engine is advisory rather than strict: data-quality problems surface
// as warnings with reduced confidence, never as errors. Only structurally
// non-tabular input fails hard, with ErrNotTabular.
package normalize
