package email

import (
	"bytes"
	"html/template"
)

var welcomeTpl = template.Must(template.New("welcome").Parse(`
<h2>Welcome, {{.Username}}</h2>
<p>Your account has been created. You can now sign in to the admin console.</p>
`))

var cardsExpiredTpl = template.Must(template.New("cards_expired").Parse(`
<h2>Card keys expired</h2>
<p>The following card keys reached the end of their validity window:</p>
<ul>
{{range .Codes}}<li><code>{{.}}</code></li>{{end}}
</ul>
`))

func renderWelcome(username string) string {
	var buf bytes.Buffer
	_ = welcomeTpl.Execute(&buf, map[string]any{"Username": username})
	return buf.String()
}

func renderCardsExpired(codes []string) string {
	var buf bytes.Buffer
	_ = cardsExpiredTpl.Execute(&buf, map[string]any{"Codes": codes})
	return buf.String()
}
