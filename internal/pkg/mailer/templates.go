package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var noticeTemplate = template.Must(template.ParseFS(templateFS, "templates/approval_notice.html"))

// Notice is the request body accepted by the mailer function
type Notice struct {
	Type     string                 `json:"type"`
	Item     map[string]interface{} `json:"item"`
	Subject  string                 `json:"subject,omitempty"`
	AdminURL string                 `json:"adminUrl,omitempty"`
}

type noticeView struct {
	Heading  string
	Title    string
	Fields   map[string]string
	AdminURL string
}

var kindLabels = map[string]string{
	"group": "grupo",
	"event": "evento",
}

// DefaultSubject is used when the request carries no subject
func (n Notice) DefaultSubject() string {
	if strings.TrimSpace(n.Subject) != "" {
		return n.Subject
	}
	label, ok := kindLabels[n.Type]
	if !ok {
		label = n.Type
	}
	return fmt.Sprintf("Nuevo %s pendiente de aprobación", label)
}

func (n Notice) title() string {
	for _, k := range []string{"name", "title"} {
		if v, ok := n.Item[k]; ok && v != nil {
			return fmt.Sprint(v)
		}
	}
	return ""
}

// Render produces the HTML body for n
func Render(n Notice) (string, error) {
	fields := make(map[string]string, len(n.Item))
	for k, v := range n.Item {
		switch v.(type) {
		case nil, map[string]interface{}, []interface{}:
			continue
		}
		fields[k] = fmt.Sprint(v)
	}

	var buf bytes.Buffer
	err := noticeTemplate.Execute(&buf, noticeView{
		Heading:  n.DefaultSubject(),
		Title:    n.title(),
		Fields:   fields,
		AdminURL: n.AdminURL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render notice: %w", err)
	}
	return buf.String(), nil
}
