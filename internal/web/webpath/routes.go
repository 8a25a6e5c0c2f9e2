package webpath

const (
	Home    = "/"
	Metrics = "/metrics"

	Api             = "/api"
	ApiPlayer       = Api + "/players/:username"
	ApiStats        = Api + "/stats"
	ApiObservations = Api + "/observations"
	ApiCurrent      = Api + "/current"
	ApiPreferences  = Api + "/preferences"
	ApiReports      = Api + "/reports"
)

func Path() map[string]string {
	return map[string]string{
		"Metrics":        Metrics,
		"Api":            Api,
		"ApiPlayer":      ApiPlayer,
		"ApiStats":       ApiStats,
		"ApiObservation": ApiObservations,
		"ApiCurrent":     ApiCurrent,
		"ApiPreferences": ApiPreferences,
		"ApiReports":     ApiReports,
	}
}
