package services

import (
	"fmt"
	"html"
	"strings"

	"github.com/rocjay1/payroll-analyzer/internal/models"
	"github.com/rocjay1/payroll-analyzer/internal/payroll"
)

const emailShell = `
		<html>
		<body style="font-family: 'Segoe UI', sans-serif; color: #333; line-height: 1.6; background-color: #f4f4f4; margin: 0; padding: 20px;">
			<div style="max-width: 600px; margin: 0 auto; background: white; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
				<div style="background-color: %s; padding: 20px; text-align: center; color: white;">
					<h2 style="margin: 0;">%s</h2>
				</div>
				<div style="padding: 20px;">
					%s
				</div>
			</div>
		</body>
		</html>
	`

func renderShell(color, title, content string) string {
	return fmt.Sprintf(emailShell, color, html.EscapeString(title), content)
}

// RenderErrorSection renders a list of problems as an HTML warning box.
func RenderErrorSection(errs []string) string {
	if len(errs) == 0 {
		return ""
	}

	var items strings.Builder
	for _, e := range errs {
		fmt.Fprintf(&items, "<li>%s</li>", html.EscapeString(e))
	}

	return fmt.Sprintf(`
		<div style="background-color: #fff4f4; border-left: 5px solid #d13438; padding: 15px; margin-bottom: 20px;">
			<ul style="margin-bottom: 0; padding-left: 20px;">
				%s
			</ul>
		</div>
	`, items.String())
}

// RenderImportErrorBody renders the email sent when an uploaded CSV is rejected.
func RenderImportErrorBody(blobName string, errs []string) string {
	content := fmt.Sprintf("<p>The file <code>%s</code> could not be imported due to the following errors:</p>%s",
		html.EscapeString(blobName), RenderErrorSection(errs))
	return renderShell("#d13438", "Import Failed", content)
}

func renderGroupLine(name string, g payroll.GroupSummary) string {
	return fmt.Sprintf("<li>%s: %d of %d fully paid, %d partially paid, %d unpaid</li>",
		name, g.FullyPaid, g.Population, g.PartiallyPaid, g.Unpaid)
}

// RenderReminderBody renders the monthly reminder listing unpaid due payments.
func RenderReminderBody(p models.Period, rows []payroll.Row, summary payroll.BatchSummary) string {
	var table strings.Builder
	table.WriteString(`<table style="width: 100%; border-collapse: collapse;">`)
	table.WriteString(`<tr><th align="left">#</th><th align="left">Payee</th><th align="left">Description</th><th align="right">Remaining</th></tr>`)
	for _, r := range rows {
		payee := r.Transaction.UserID
		if r.Transaction.IsExpense() {
			payee = r.Transaction.Category
		}
		remaining := r.Status.Remaining
		if remaining.IsZero() {
			remaining = r.Transaction.Amount
		}
		fmt.Fprintf(&table, `<tr><td>%d</td><td>%s</td><td>%s</td><td align="right">%s</td></tr>`,
			r.Transaction.ID,
			html.EscapeString(payee),
			html.EscapeString(r.Transaction.Description),
			remaining.StringFixed(2),
		)
	}
	table.WriteString("</table>")

	content := fmt.Sprintf(`
		<p>The following recurring payments are still due for %s:</p>
		%s
		<h3>Batch status</h3>
		<ul>%s%s</ul>
	`, p, table.String(), renderGroupLine("Teachers", summary.Teachers), renderGroupLine("Staff", summary.Staff))

	return renderShell("#0078d4", fmt.Sprintf("Payments due for %s", p), content)
}
