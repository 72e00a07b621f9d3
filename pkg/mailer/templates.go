package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var welcomeHTML = template.Must(template.New(TemplateWelcome).Parse(`
<html>
  <body style="font-family: sans-serif; color: #333;">
    <h2>Welcome to Recipebox{{if .Name}}, {{.Name}}{{end}}!</h2>
    <p>Your account <strong>{{.Email}}</strong> is ready.</p>
    <p>Start saving recipes, tag them, and keep your ingredient lists in one place.</p>
  </body>
</html>
`))

// Render produces subject, text, and HTML bodies for a named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case TemplateWelcome:
		var buf bytes.Buffer
		if err := welcomeHTML.Execute(&buf, data); err != nil {
			return "", "", "", err
		}
		text = fmt.Sprintf("Welcome to Recipebox! Your account %v is ready.", data["Email"])
		return "Welcome to Recipebox", text, buf.String(), nil
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
}
