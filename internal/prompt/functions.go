package prompt

import (
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// CustomFuncMap returns the custom template functions available in prompt templates.
func CustomFuncMap() template.FuncMap {
	return template.FuncMap{
		"toLower":   strings.ToLower,
		"toUpper":   strings.ToUpper,
		"trimSpace": strings.TrimSpace,
		"join":      strings.Join,
		"indent": func(spaces int, s string) string {
			pad := strings.Repeat(" ", spaces)
			lines := strings.Split(s, "\n")
			for i, line := range lines {
				if line != "" {
					lines[i] = pad + line
				}
			}
			return strings.Join(lines, "\n")
		},
		// toYAML renders a value as a YAML block; map keys come out sorted.
		"toYAML": func(v any) (string, error) {
			out, err := yaml.Marshal(v)
			if err != nil {
				return "", err
			}
			return string(out), nil
		},
	}
}
