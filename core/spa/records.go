package spa

// Row layouts of the exchange files. Column names are the header row of each
// file; the delimiter is a semicolon.

// pruef-intervalle.csv
type intervalRow struct {
	Week int    `csv:"Woche"`
	From string `csv:"Von"`
	To   string `csv:"Bis"`
}

// pruefungen.csv
type examRow struct {
	Number   string `csv:"Nummer"`
	Name     string `csv:"Name"`
	Form     string `csv:"Form"`
	Duration int    `csv:"Dauer"`
	// Comment lists the names of all groups taking the exam.
	Comment string `csv:"Kommentar"`
}

// zuege-pruef.csv
type groupExamRow struct {
	Group  string `csv:"Zug"`
	Number string `csv:"Nummer"`
	PerDay int    `csv:"ProTag"`
}

// zuege-pruef-pref2.csv
type groupPrefRow struct {
	Group  string `csv:"Zug"`
	Number string `csv:"Nummer"`
	Rank   int    `csv:"Rang"`
}

// SPA-ERGEBNIS-PP/SPA-planung-pruef.csv
type scheduleRow struct {
	Number string `csv:"Nummer"`
	Block  string `csv:"Block"`
}

// SPA-ERGEBNIS-PP/SPA-zuege-pruef.csv
type groupScheduleRow struct {
	Group  string `csv:"Zug"`
	Number string `csv:"Nummer"`
	Block  string `csv:"Block"`
}

const (
	dateLayout       = "02.01.2006"
	commentSeparator = ","
)
