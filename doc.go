// Package folio tracks a personal stock portfolio.
//
// The portfolio is an ordered list of holdings (one per purchase) persisted in
// a single JSON file. Holdings are valued periodically against a PriceLookup,
// producing a Valuation: one row per holding whose price was available, the
// portfolio total, and the quote of a reference index.
//
// The main types are:
//   - Store: the durable, ordered collection of holdings.
//   - Engine: the stateless valuation of holdings against fresh prices.
//   - Tracker: the application state, serializing mutations and publishing
//     valuations to subscribers.
//   - Scheduler: the recurring refresh cycle driving the Tracker.
//
// This package serves as the foundational logic for the `ptk` command-line
// tool and its live server.
package folio
