package dataprocessing

import (
	"gonum.org/v1/gonum/floats"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/pkg/contracts/domain"
)

// Aggregate derives level totals, grand total, proportions and the locale
// type for every record. Records whose grand total is zero keep
// ProportionsDefined false and zero proportions.
func Aggregate(records []domain.EnrollmentRecord) []domain.AnalyzedRecord {
	analyzed := make([]domain.AnalyzedRecord, 0, len(records))
	for _, rec := range records {
		analyzed = append(analyzed, Analyze(rec))
	}
	return analyzed
}

// Analyze computes the derived columns of a single record
func Analyze(rec domain.EnrollmentRecord) domain.AnalyzedRecord {
	c := rec.Counts
	totals := domain.LevelTotals{
		EarlyChildhood: c.CrechePartial + c.CrecheFull + c.PreschoolPartial + c.PreschoolFull,
		Elementary:     c.ElementaryPartial + c.ElementaryFull + c.MiddlePartial + c.MiddleFull,
		Secondary:      c.HighSchoolPartial + c.HighSchoolFull,
		AdultEducation: c.AdultElementary + c.AdultSecondary,
	}

	out := domain.AnalyzedRecord{
		EnrollmentRecord: rec,
		Totals:           totals,
		GrandTotal:       floats.Sum(totals.Values()),
		LocaleType:       ClassifyLocale(rec.Locale),
	}

	if out.GrandTotal != 0 {
		out.Proportions = domain.LevelTotals{
			EarlyChildhood: totals.EarlyChildhood / out.GrandTotal * 100,
			Elementary:     totals.Elementary / out.GrandTotal * 100,
			Secondary:      totals.Secondary / out.GrandTotal * 100,
			AdultEducation: totals.AdultEducation / out.GrandTotal * 100,
		}
		out.ProportionsDefined = true
	}

	return out
}
