// Package papertrade implements a virtual trading account driven by free form
// trading decisions.
//
// The core functionalities include:
//   - Ledger: cash, positions at weighted average cost and the history of the
//     executed orders, with exact decimal arithmetic.
//   - Instruction parsing: trading instructions are extracted from JSON,
//     markdown with embedded JSON, or plain sentences like "BUY 10 AAPL".
//     Parsing never fails, text without instructions yields none.
//   - Execution: instructions are applied in order against market prices, each
//     with its own success or failure, without aborting the batch.
//   - Persistence: a ledger is saved as a single JSON document, atomically.
//
// Account is the entry point of applications: it serializes the runs on an
// account file and records them with an optional Recorder.
package papertrade
