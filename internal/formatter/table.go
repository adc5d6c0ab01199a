package formatter

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/asincerity/convertible-bond-reminder/internal/models"
)

var summaryHeader = []string{"#", "转债", "代码", "申购代码", "正股", "评级"}

// SummaryTable renders the actionable bonds as a plain-text table for the
// end-of-run console report. Columns are padded by display width so CJK
// names line up with ASCII codes.
func SummaryTable(bonds []models.ActionableBond) string {
	rows := [][]string{summaryHeader}

	for i, bond := range bonds {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			bond.Name,
			bond.Code,
			bond.ApplyCode,
			bond.StockName,
			bond.Rating,
		})
	}

	colWidths := make([]int, len(summaryHeader))

	for _, row := range rows {
		for i, cell := range row {
			if width := runewidth.StringWidth(cell); width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	var sb strings.Builder

	for rowIdx, row := range rows {
		sb.WriteString("|")

		for i, cell := range row {
			sb.WriteString(" ")
			sb.WriteString(cell)

			if padding := colWidths[i] - runewidth.StringWidth(cell); padding > 0 {
				sb.WriteString(strings.Repeat(" ", padding))
			}

			sb.WriteString(" |")
		}

		sb.WriteString("\n")

		// Separator under the header row.
		if rowIdx == 0 {
			sb.WriteString("|")

			for _, width := range colWidths {
				sb.WriteString(" ")
				sb.WriteString(strings.Repeat("-", width))
				sb.WriteString(" |")
			}

			sb.WriteString("\n")
		}
	}

	return sb.String()
}
