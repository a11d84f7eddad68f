package cmd

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/mattn/go-runewidth"
)

// renderTemplate applies a user supplied template to data.
func renderTemplate(templateStr string, data any) (string, error) {
	tmpl, err := template.New("output").Funcs(template.FuncMap{
		"join":      strings.Join,
		"followers": formatCount,
		"duration":  formatDuration,
	}).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("invalid template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}

	return buf.String(), nil
}

// padToWidth pads or truncates text to a fixed display width.
// Width is measured in display columns, accounting for Unicode characters.
// If width <= 0, returns text unchanged.
// If text is longer than width, truncates with "..." suffix.
func padToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}

	current := runewidth.StringWidth(text)
	switch {
	case current > width:
		const ellipsis = "..."
		if width <= len(ellipsis) {
			return runewidth.Truncate(ellipsis, width, "")
		}
		// Truncate may land one column short next to a wide rune.
		return runewidth.FillRight(runewidth.Truncate(text, width, ellipsis), width)
	case current < width:
		return text + strings.Repeat(" ", width-current)
	default:
		return text
	}
}

// table writes rows as columns sized to their widest cell, capped at max
// columns per cell. The last column is never padded.
type table struct {
	max  int
	rows [][]string
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) write(w io.Writer) {
	var widths []int
	for _, row := range t.rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			cw := runewidth.StringWidth(cell)
			if t.max > 0 && cw > t.max {
				cw = t.max
			}
			if cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	for _, row := range t.rows {
		var line strings.Builder
		for i, cell := range row {
			if i > 0 {
				line.WriteString("  ")
			}
			if i == len(row)-1 {
				if t.max > 0 && runewidth.StringWidth(cell) > t.max {
					cell = padToWidth(cell, t.max)
				}
				line.WriteString(cell)
				continue
			}
			line.WriteString(padToWidth(cell, widths[i]))
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

// formatCount renders 1234567 as "1,234,567".
func formatCount(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var out strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(r)
	}

	if neg {
		return "-" + out.String()
	}
	return out.String()
}

// formatDuration formats milliseconds as M:SS
func formatDuration(ms int) string {
	d := time.Duration(ms) * time.Millisecond
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// releaseYear returns the year part of a Spotify release date.
func releaseYear(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return date
}
