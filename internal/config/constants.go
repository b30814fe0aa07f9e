package config

// Application constants
const (
	// Application Info
	AppName = "Censo Escolar Report"

	// EnvPrefix namespaces every environment override (CENSO_INPUT_PATH, ...)
	EnvPrefix = "CENSO"

	// Input defaults
	DefaultInputPath = "data/censo_escolar.csv"
	DefaultDelimiter = ";"
	EncodingLatin1   = "latin1"
	EncodingUTF8     = "utf8"

	// Output file names, written under the output directory
	DefaultOutputDir   = "relatorios"
	BarChartFileName   = "matrículas_por_localizacao.png"
	PieChartFileName   = "distribuicao_clusters.png"
	ReportFileName     = "relatorio_censo_escolar.pdf"
	SummaryCSVFileName = "resumo_por_localizacao.csv"
	ClusterCSVFileName = "clusters.csv"
	WorkbookFileName   = "censo_escolar.xlsx"

	// Report engines
	EngineFPDF   = "fpdf"
	EngineChrome = "chrome"

	// Telemetry defaults, relative to the output directory
	DefaultTraceFile   = "telemetry/trace.json"
	DefaultMetricsFile = "telemetry/metrics.prom"

	// Logging defaults
	DefaultLogFile = "logs/censo-report.log"
)
