package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
)

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  @page { size: A4; margin: 1in; }
  body { font-family: Helvetica, Arial, sans-serif; font-size: 10pt; color: #000; }
  h1 { text-align: center; font-size: 18pt; margin-bottom: 12pt; }
  h2 { font-size: 14pt; margin: 12pt 0 4pt; }
  p { margin: 0 0 12pt; }
  figure { margin: 0 0 12pt; text-align: center; }
  table { border-collapse: collapse; width: 100%; }
  th, td { border: 0.5pt solid #000; text-align: center; padding: 4pt; }
  th { background: rgb(128,128,128); color: rgb(245,245,245); font-weight: bold; padding-bottom: 10pt; }
  td { background: rgb(245,245,220); }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Intro}}</p>

<h2>{{.LocaleHeading}}</h2>
<p>{{.LocaleCaption}}</p>
{{with .BarChart}}<figure><img src="{{.}}" style="width:{{$.BarWidth}}pt;height:{{$.BarHeight}}pt" alt="bar chart"></figure>{{end}}

<h2>{{.ClusterHeading}}</h2>
{{if .PieChart}}<p>{{.ClusterCaption}}</p>
<figure><img src="{{.PieChart}}" style="width:{{.PieWidth}}pt;height:{{.PieHeight}}pt" alt="pie chart"></figure>
{{else}}<p class="notice">{{.Notice}}</p>
{{end}}
<h2>{{.MetricsHeading}}</h2>
<table>
<thead><tr>{{range .Metrics.Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Metrics.Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

type htmlView struct {
	Title          string
	Intro          string
	LocaleHeading  string
	LocaleCaption  string
	ClusterHeading string
	ClusterCaption string
	MetricsHeading string
	Notice         string
	BarChart       template.URL
	PieChart       template.URL
	BarWidth       int
	BarHeight      int
	PieWidth       int
	PieHeight      int
	Metrics        MetricsTable
}

// RenderHTML renders doc as a self-contained HTML page with the charts
// embedded as data URIs.
func RenderHTML(doc *Document) ([]byte, error) {
	view := htmlView{
		Title:          Title,
		Intro:          Intro,
		LocaleHeading:  LocaleHeading,
		LocaleCaption:  LocaleCaption,
		ClusterHeading: ClusterHeading,
		ClusterCaption: ClusterCaption,
		MetricsHeading: MetricsHeading,
		Notice:         doc.ClusterNotice(),
		BarWidth:       BarImageWidth,
		BarHeight:      BarImageHeight,
		PieWidth:       PieImageWidth,
		PieHeight:      PieImageHeight,
		Metrics:        doc.Metrics(),
	}

	if doc.BarChartPath != "" {
		uri, err := pngDataURI(doc.BarChartPath)
		if err != nil {
			return nil, err
		}
		view.BarChart = uri
	}
	if doc.ShowsPieChart() {
		uri, err := pngDataURI(doc.PieChartPath)
		if err != nil {
			return nil, err
		}
		view.PieChart = uri
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render report html: %w", err)
	}
	return buf.Bytes(), nil
}

func pngDataURI(path string) (template.URL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read chart %s: %w", path, err)
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(data)), nil
}
