// Package analysis generates the exploratory reports over the processed
// order dataset.
//
// Each report is a Reporter: it reads the shared []domain.OrderRecord without
// modifying it, returns a Summary and writes one chart. Reporters are kept in
// a Registry in registration order and run one after the other by Analyzer.
//
//	records, err := analysis.LoadRecords(ctx, paths.ProcessedCSV, logger)
//	registry, err := analysis.DefaultRegistry(cfg.Pipeline)
//	analyzer := analysis.NewAnalyzer(registry, os.Stdout, logger, metrics, tracing)
//	summaries, err := analyzer.Run(ctx, records, paths.AnalysisDir)
//
// Records come from a fan-out join, so counts and sums are over
// (order, review, payment, item) rows rather than distinct orders.
package analysis
