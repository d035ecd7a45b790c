package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns a Message into an HTML body.
type Renderer struct {
	brand Branding
	tmpl  *template.Template
	now   func() time.Time
}

func NewRenderer(brand Branding) (*Renderer, error) {
	tmpl, err := template.New("mail").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("mail: parse templates: %w", err)
	}
	return &Renderer{brand: brand, tmpl: tmpl, now: time.Now}, nil
}

func (r *Renderer) Render(msg Message) (string, error) {
	t := r.tmpl.Lookup(msg.Template + ".html")
	if t == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, msg.Template)
	}

	data := map[string]any{
		"Brand":       r.brand,
		"CurrentYear": r.now().Year(),
	}
	for k, v := range msg.Data {
		data[k] = v
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("mail: render %s: %w", msg.Template, err)
	}
	return buf.String(), nil
}
