// Package dataprocessing turns the published school census table into
// analysis-ready records.
//
// # Architecture
//
// The package is organized into three components:
//
// 1. Loader: decodes the Latin-1 ';' table, drops aggregate and invalid rows
// 2. Aggregator: derives level totals, grand total and proportions
// 3. Grouper: classifies locales as Urbana or Rural and averages each group
//
// # Usage
//
//	result, err := dataprocessing.LoadFile("data/censo_escolar.csv", dataprocessing.DefaultLoadOptions(), logger)
//	if err != nil {
//	    return err
//	}
//	analyzed := dataprocessing.Aggregate(result.Records)
//	summary := dataprocessing.GroupByLocale(analyzed)
//
// # Data Flow
//
//	CSV file → Loader → EnrollmentRecords → Aggregator → AnalyzedRecords → Grouper → LocaleSummaries
//
// # Error Handling
//
// Structural problems with the table (a header that is not 13 columns wide,
// a row with extra fields) return ErrMalformedTable. Cells that cannot be
// read as numbers never fail the load: the row is dropped and counted in
// LoadStats.
package dataprocessing
