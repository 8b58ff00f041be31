package templates

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sgr-storefront/pkg/backend"
)

//go:embed *.html
var files embed.FS

// Parse loads every embedded page template.
func Parse() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(funcMap()).ParseFS(files, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return tmpl, nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"price": func(value decimal.Decimal) string {
			return "€ " + value.StringFixed(2)
		},
		"contains": func(values []string, value string) bool {
			for _, v := range values {
				if v == value {
					return true
				}
			}
			return false
		},
		"joinTags": func(tags []string) string {
			return strings.Join(tags, ", ")
		},
		"hasCategory": func(categories []backend.Category, name string) bool {
			for _, c := range categories {
				if c.Name == name {
					return true
				}
			}
			return false
		},
		// pages yields 1..n for the pagination strip.
		"pages": func(n int) []int {
			if n < 1 {
				return nil
			}
			out := make([]int, n)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
	}
}
