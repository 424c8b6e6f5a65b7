package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/zulandar/missionctl/internal/board"
)

// formatTime renders an optional timestamp, with "-" for unset.
func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// orDash substitutes "-" for an empty string in table cells.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// renderBoard prints a board view column by column.
func renderBoard(out io.Writer, view board.View) error {
	for i, col := range view.Columns {
		if i > 0 {
			fmt.Fprintln(out)
		}
		header := fmt.Sprintf("%s (%d)", col.Title, col.Count)
		if col.Status == "review" && view.ReviewFilter != board.ReviewAll {
			header += fmt.Sprintf(" [filter: %s, showing %d]", view.ReviewFilter, len(col.Cards))
		}
		fmt.Fprintln(out, header)
		fmt.Fprintln(out, strings.Repeat("-", len(header)))

		if len(col.Cards) == 0 {
			fmt.Fprintln(out, "(empty)")
			continue
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, card := range col.Cards {
			extra := orDash(card.AgentID)
			if card.ReviewReason != "" {
				extra += "  ! " + truncate(card.ReviewReason, 30)
			}
			fmt.Fprintf(w, "#%d\t%s\t%s\t%s\n", card.ID, truncate(card.Title, 40), card.Priority, extra)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
