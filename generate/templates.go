package generate

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"themec/config"
	"themec/state"
)

// templateValues is a struct that holds variables we make available for
// output name template expansion
type templateValues struct {
	Context    string
	SourceFile string
	Themes     []string
	Default    string
	Mode       string
}

func newTemplateValues(name config.TemplateFieldName, srcName string, env *state.LocalEnv) *templateValues {
	values := &templateValues{
		Context:    string(name),
		SourceFile: strings.TrimSuffix(filepath.Base(srcName), filepath.Ext(srcName)),
		Default:    env.Cfg.Themes.Default.Name,
		Mode:       env.Cfg.Generator.Mode.String(),
	}
	if env.Store != nil {
		values.Themes = env.Store.Names()
	}
	return values
}

// expandTemplate expands a template string with initialized values
func expandTemplate(name config.TemplateFieldName, field string, values *templateValues) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
