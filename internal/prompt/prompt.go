package prompt

import (
	"bytes"
	_ "embed"
	"strings"
	"sync"
	"text/template"
)

//go:embed assets/interior.txt
var interiorPrompt string

//go:embed assets/inpaint.tmpl
var inpaintTmpl string

type Params struct {
	OptionalDetail string
}

var (
	once sync.Once
	tmpl *template.Template
)

// Interior is the fixed furnishing instruction sent along with a room photo.
func Interior() string {
	return strings.TrimSpace(interiorPrompt)
}

// Inpaint renders the design-sheet instruction with the caller's note
// substituted into the User note slot.
func Inpaint(optionalDetail string) (string, error) {
	once.Do(func() {
		tmpl = template.Must(template.New("inpaint").Parse(inpaintTmpl))
	})

	var data bytes.Buffer
	if err := tmpl.Execute(&data, Params{OptionalDetail: strings.TrimSpace(optionalDetail)}); err != nil {
		return "", err
	}
	return strings.TrimSpace(data.String()), nil
}
