// Package dataprocessing implements the extract and transform steps of the
// order pipeline: it loads the Olist CSV dump into named tables and joins
// them into one flat, cleaned record set.
//
// # Architecture
//
// The package is organized into three components:
//
// 1. Loader: reads every CSV file of a directory into a Table (go-gota)
// 2. LeftJoin / TranslateCategories: hash left joins over Tables
// 3. Transformer: runs the fixed join chain, parses dates and drops
// records missing essential fields
//
// # Usage
//
//	loader := dataprocessing.NewLoader(logger, metrics)
//	tables, err := loader.LoadDirectory(ctx, paths.DataDir)
//	if err != nil {
//	    return err
//	}
//
//	transformer := dataprocessing.NewTransformer(logger, metrics)
//	cleaned, stats, err := transformer.Transform(ctx, tables)
//
// # Data Flow
//
//	CSV directory → Loader → Tables → Transformer → cleaned Table → exporter
//
// # Fan-out
//
// Joins never deduplicate. An order with two payments and three items
// produces six rows, and downstream aggregates rely on that row count. A
// left row with no match is kept once with empty right-hand cells.
//
// # Absent values
//
// Tables hold strings only; the empty string is the absent value. Date
// parsing is the single place where bad input is recovered locally: an
// unparsable date becomes empty instead of failing the run.
package dataprocessing
