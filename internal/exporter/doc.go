// Package exporter writes the census analysis as machine-readable files.
//
// CSVWriter: Core CSV writing with headers and an optional UTF-8 BOM for
// Excel compatibility.
//
// CensusExporter: Writes the locale summary and the cluster assignments as
// CSV files in the output directory.
//
// WorkbookExporter: Writes the same tables, plus every analyzed record, as
// sheets of a single XLSX workbook.
//
// Example usage:
//
//	paths := cfg.Paths()
//	tables := exporter.BuildTables(analyzed, summaries, outcome)
//
//	csvExporter := exporter.NewCensusExporter(paths, logger)
//	written, err := csvExporter.Export(tables)
//
//	workbook := exporter.NewWorkbookExporter(paths, logger)
//	err = workbook.Export(tables)
package exporter
