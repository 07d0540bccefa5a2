package common

import (
	"bytes"
	"html/template"

	"github.com/franciscopereira987/routemap/pkg/filter"
)

type cityOption struct {
	Name     string
	Selected bool
}

type pageData struct {
	Error    string
	Warning  string
	PriceLo  float64
	PriceHi  float64
	Min      float64
	Max      float64
	Origins  []cityOption
	Dests    []cityOption
	Count    int
	BuildURL template.URL
	ResetURL template.URL
	Phase    string
	Progress int
	Map      template.HTML
}

func cityOptions(cities []string, selected filter.CitySet) []cityOption {
	opts := make([]cityOption, 0, len(cities))
	for _, c := range cities {
		_, ok := selected[c]
		opts = append(opts, cityOption{Name: c, Selected: ok})
	}
	return opts
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="utf-8">
<title>Карта маршрутов России</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
body { display: flex; margin: 0; font-family: sans-serif; }
aside { width: 320px; padding: 1em; background: #f4f4f6; min-height: 100vh; box-sizing: border-box; }
main { flex: 1; padding: 1em; }
select { width: 100%; height: 10em; }
.route-map { width: 1200px; max-width: 100%; height: 600px; }
.error { color: #b00020; }
.warning { color: #8a6d00; }
</style>
</head>
<body>
{{if .Error}}
<main><h1>Интерактивная карта маршрутов России</h1><p class="error">{{.Error}}</p></main>
{{else}}
<aside>
<h2>Фильтры</h2>
<form method="get" action="/">
<p>Диапазон цен (руб.)<br>
<input type="number" name="min" min="{{.PriceLo}}" max="{{.PriceHi}}" step="any" value="{{.Min}}">
&ndash;
<input type="number" name="max" min="{{.PriceLo}}" max="{{.PriceHi}}" step="any" value="{{.Max}}"></p>
<p>Города отправления<br>
<select name="from" multiple>{{range .Origins}}<option{{if .Selected}} selected{{end}}>{{.Name}}</option>{{end}}</select></p>
<p>Города назначения<br>
<select name="to" multiple>{{range .Dests}}<option{{if .Selected}} selected{{end}}>{{.Name}}</option>{{end}}</select></p>
<button type="submit">Применить</button>
</form>
</aside>
<main>
<h1>Интерактивная карта маршрутов России</h1>
<p>Найдено маршрутов: {{.Count}}</p>
{{if .Warning}}<p class="warning">{{.Warning}}</p>{{else}}
<form method="post" action="{{.BuildURL}}" style="display:inline"><button type="submit">Построить карту</button></form>
<form method="post" action="{{.ResetURL}}" style="display:inline"><button type="submit">Сбросить карту</button></form>
{{if eq .Phase "resolving"}}<p>Геокодирование городов... {{.Progress}}%</p>{{end}}
{{.Map}}
{{end}}
</main>
{{end}}
</body>
</html>
`))

func renderPage(data pageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
