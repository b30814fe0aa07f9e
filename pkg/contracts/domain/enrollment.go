package domain

// EnrollmentCounts holds the twelve raw enrollment counts of a locale row,
// split by education track and by partial/full schedule.
type EnrollmentCounts struct {
	CrechePartial     float64 `json:"creche_parcial"`
	CrecheFull        float64 `json:"creche_integral"`
	PreschoolPartial  float64 `json:"pre_escola_parcial"`
	PreschoolFull     float64 `json:"pre_escola_integral"`
	ElementaryPartial float64 `json:"anos_iniciais_parcial"`
	ElementaryFull    float64 `json:"anos_iniciais_integral"`
	MiddlePartial     float64 `json:"anos_finais_parcial"`
	MiddleFull        float64 `json:"anos_finais_integral"`
	HighSchoolPartial float64 `json:"medio_parcial"`
	HighSchoolFull    float64 `json:"medio_integral"`
	AdultElementary   float64 `json:"eja_fundamental"`
	AdultSecondary    float64 `json:"eja_medio"`
}

// NumericColumnCount is the number of raw count columns after the locale column
const NumericColumnCount = 12

// Values returns the counts in source column order
func (c EnrollmentCounts) Values() [NumericColumnCount]float64 {
	return [NumericColumnCount]float64{
		c.CrechePartial, c.CrecheFull,
		c.PreschoolPartial, c.PreschoolFull,
		c.ElementaryPartial, c.ElementaryFull,
		c.MiddlePartial, c.MiddleFull,
		c.HighSchoolPartial, c.HighSchoolFull,
		c.AdultElementary, c.AdultSecondary,
	}
}

// CountsFromValues builds EnrollmentCounts from values in source column order
func CountsFromValues(v [NumericColumnCount]float64) EnrollmentCounts {
	return EnrollmentCounts{
		CrechePartial:     v[0],
		CrecheFull:        v[1],
		PreschoolPartial:  v[2],
		PreschoolFull:     v[3],
		ElementaryPartial: v[4],
		ElementaryFull:    v[5],
		MiddlePartial:     v[6],
		MiddleFull:        v[7],
		HighSchoolPartial: v[8],
		HighSchoolFull:    v[9],
		AdultElementary:   v[10],
		AdultSecondary:    v[11],
	}
}

// EnrollmentRecord is one cleaned locale row of the census table
type EnrollmentRecord struct {
	Locale string           `json:"localizacao"`
	Counts EnrollmentCounts `json:"counts"`
}

// Columns are the fixed names given to the 13 source columns, in order
var Columns = [NumericColumnCount + 1]string{
	"Localizacao",
	"Creche_Parcial", "Creche_Integral",
	"Pre_escola_Parcial", "Pre_escola_Integral",
	"Anos_Iniciais_Parcial", "Anos_Iniciais_Integral",
	"Anos_Finais_Parcial", "Anos_Finais_Integral",
	"Medio_Parcial", "Medio_Integral",
	"EJA_Fundamental", "EJA_Medio",
}

// LevelGroup identifies one of the four education level groups
type LevelGroup int

const (
	LevelEarlyChildhood LevelGroup = iota
	LevelElementary
	LevelSecondary
	LevelAdultEducation
)

// LevelGroups lists every level group in report order
var LevelGroups = []LevelGroup{
	LevelEarlyChildhood,
	LevelElementary,
	LevelSecondary,
	LevelAdultEducation,
}

// Label returns the column label used in charts, tables and exports
func (g LevelGroup) Label() string {
	switch g {
	case LevelEarlyChildhood:
		return "Total_Infantil"
	case LevelElementary:
		return "Total_Fundamental"
	case LevelSecondary:
		return "Total_Medio"
	case LevelAdultEducation:
		return "Total_EJA"
	default:
		return "Total_Desconhecido"
	}
}

// ProportionLabel returns the label of the matching percentage column
func (g LevelGroup) ProportionLabel() string {
	switch g {
	case LevelEarlyChildhood:
		return "Prop_Infantil"
	case LevelElementary:
		return "Prop_Fundamental"
	case LevelSecondary:
		return "Prop_Medio"
	case LevelAdultEducation:
		return "Prop_EJA"
	default:
		return "Prop_Desconhecido"
	}
}

// LevelTotals holds one value per level group. It is used both for
// enrollment totals and for the matching percentages.
type LevelTotals struct {
	EarlyChildhood float64 `json:"infantil"`
	Elementary     float64 `json:"fundamental"`
	Secondary      float64 `json:"medio"`
	AdultEducation float64 `json:"eja"`
}

// Get returns the value for a level group
func (t LevelTotals) Get(g LevelGroup) float64 {
	switch g {
	case LevelEarlyChildhood:
		return t.EarlyChildhood
	case LevelElementary:
		return t.Elementary
	case LevelSecondary:
		return t.Secondary
	case LevelAdultEducation:
		return t.AdultEducation
	default:
		return 0
	}
}

// Values returns the values in LevelGroups order
func (t LevelTotals) Values() []float64 {
	return []float64{t.EarlyChildhood, t.Elementary, t.Secondary, t.AdultEducation}
}

// Sum adds the four values in LevelGroups order
func (t LevelTotals) Sum() float64 {
	return t.EarlyChildhood + t.Elementary + t.Secondary + t.AdultEducation
}

// AnalyzedRecord is an EnrollmentRecord with its derived totals,
// proportions and locale classification.
type AnalyzedRecord struct {
	EnrollmentRecord
	Totals     LevelTotals `json:"totals"`
	GrandTotal float64     `json:"total_geral"`
	// Proportions are percentages of GrandTotal. They are only meaningful
	// when ProportionsDefined is true, which requires GrandTotal != 0.
	Proportions        LevelTotals `json:"proportions"`
	ProportionsDefined bool        `json:"proportions_defined"`
	LocaleType         LocaleType  `json:"tipo_localizacao"`
}
