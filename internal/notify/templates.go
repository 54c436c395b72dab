package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/mercadero/storefront/internal/order"
)

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<h2>Thanks for your order!</h2>
<p>Your order <strong>{{.Order.Number}}</strong> has been received.</p>
<table>
  {{range .Lines}}
  <tr>
    <td>{{.Name}}{{if .Size}} ({{.Size}}){{end}}{{if .Color}} {{.Color}}{{end}}</td>
    <td>x{{.Quantity}}</td>
    <td>{{.UnitPrice}}</td>
  </tr>
  {{end}}
</table>
<p>Total: <strong>{{.Order.Total}}</strong></p>
<p>We will email you when your order ships. You can follow it any time
with your order number and email address.</p>
`))

var statusTmpl = template.Must(template.New("status").Parse(`
<h2>Order update</h2>
<p>Your order <strong>{{.Order.Number}}</strong> is now
<strong>{{.Entry.Status}}</strong>.</p>
{{if .Entry.Comment}}<p>{{.Entry.Comment}}</p>{{end}}
{{if .Order.TrackingNumber}}<p>Tracking number: <strong>{{.Order.TrackingNumber}}</strong></p>{{end}}
`))

var operatorTmpl = template.Must(template.New("operator").Parse(`
<h2>New order {{.Order.Number}}</h2>
<p>{{len .Lines}} line(s), total {{.Order.Total}}.</p>
<p>Ship to: {{.Order.Shipping.Address}}, {{.Order.Shipping.City}},
{{.Order.Shipping.State}} {{.Order.Shipping.ZipCode}}, {{.Order.Shipping.Country}}</p>
`))

func renderConfirmation(o *order.Order, lines []order.Line) (string, error) {
	return render(confirmationTmpl, map[string]any{"Order": o, "Lines": lines})
}

func renderStatus(o *order.Order, e order.HistoryEntry) (string, error) {
	return render(statusTmpl, map[string]any{"Order": o, "Entry": e})
}

func renderOperator(o *order.Order, lines []order.Line) (string, error) {
	return render(operatorTmpl, map[string]any{"Order": o, "Lines": lines})
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
