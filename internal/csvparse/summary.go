package csvparse

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/rocjay1/payroll-analyzer/internal/payroll"
)

// FormatSummary renders a batch summary as CSV, one line per role group.
func FormatSummary(s payroll.BatchSummary) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	records := [][]string{
		{"Period", "Group", "Population", "Fully Paid", "Partially Paid", "Unpaid", "Total Paid", "Notice"},
		summaryRecord(s, "teachers", s.Teachers),
		summaryRecord(s, "staff", s.Staff),
	}
	if err := w.WriteAll(records); err != nil {
		return "", fmt.Errorf("failed to write summary csv: %w", err)
	}
	return b.String(), nil
}

func summaryRecord(s payroll.BatchSummary, group string, g payroll.GroupSummary) []string {
	return []string{
		s.Period.String(),
		group,
		strconv.Itoa(g.Population),
		strconv.Itoa(g.FullyPaid),
		strconv.Itoa(g.PartiallyPaid),
		strconv.Itoa(g.Unpaid),
		g.TotalPaid.StringFixed(2),
		string(s.Notice),
	}
}
