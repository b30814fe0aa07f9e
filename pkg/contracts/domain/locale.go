package domain

// LocaleType is the Urban/Rural classification of a locale name
type LocaleType string

const (
	LocaleUrban LocaleType = "Urbana"
	LocaleRural LocaleType = "Rural"
	LocaleOther LocaleType = "Outro"
)

// String returns the label used in the outputs
func (l LocaleType) String() string {
	return string(l)
}

// Grouped reports whether the type takes part in the grouped summary
func (l LocaleType) Grouped() bool {
	return l == LocaleUrban || l == LocaleRural
}

// LocaleSummary is one row of the grouped summary: the mean level totals
// of every record classified under Locale.
type LocaleSummary struct {
	Locale  LocaleType  `json:"tipo_localizacao"`
	Members int         `json:"members"`
	Means   LevelTotals `json:"means"`
}
