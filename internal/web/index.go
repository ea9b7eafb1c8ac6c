package web

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/covidconv/internal/core"
	"github.com/JonMunkholm/covidconv/internal/dataset"
	"github.com/a-h/templ"
)

// IndexPage renders the landing page: the registered formats and a form
// per shape for trying a conversion from the browser.
func IndexPage(formats []FormatResponse) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<title>COVID-19 time-series converter</title>`)
		b.WriteString(`<style>body{font-family:sans-serif;max-width:48rem;margin:2rem auto}` +
			`table{border-collapse:collapse}td,th{padding:.25rem .75rem;border-bottom:1px solid #ddd;text-align:left}</style>`)
		b.WriteString(`</head><body><h1>COVID-19 time-series converter</h1>`)

		b.WriteString(`<table><thead><tr><th>Name</th><th>Layout</th><th>Shape</th><th>Writes</th></tr></thead><tbody>`)
		for _, f := range formats {
			fmt.Fprintf(&b, `<tr><td><code>%s</code></td><td><a href="%s">%s</a></td><td>%s</td><td>%s</td></tr>`,
				templ.EscapeString(f.Name),
				templ.EscapeString(f.Source),
				templ.EscapeString(f.Label),
				templ.EscapeString(f.Shape),
				templ.EscapeString(strings.Join(f.Outputs, ", ")),
			)
		}
		b.WriteString(`</tbody></table>`)

		for _, in := range formats {
			for _, out := range formats {
				if in.Name == out.Name {
					continue
				}
				writeConvertForm(&b, in, out)
			}
		}

		b.WriteString(`</body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeConvertForm(b *strings.Builder, in, out FormatResponse) {
	fmt.Fprintf(b, `<h2>%s &rarr; %s</h2>`, templ.EscapeString(in.Name), templ.EscapeString(out.Name))
	fmt.Fprintf(b, `<form method="post" enctype="multipart/form-data" action="/api/convert/%s/%s">`,
		templ.EscapeString(in.Name), templ.EscapeString(out.Name))

	if in.Shape == string(core.ShapeAspect) {
		for _, a := range dataset.Aspects {
			fmt.Fprintf(b, `<p><label>%s <input type="file" name="%s" required></label></p>`, a, a)
		}
	} else {
		fmt.Fprintf(b, `<p><label>files <input type="file" name="%s" multiple required></label></p>`, RawInputField)
	}

	b.WriteString(`<p><button type="submit">Convert</button></p></form>`)
}
