package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aussiebroadwan/alumni/pkg/alumnisdk"
)

// JSONResponse is the standard JSON output format
type JSONResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Error   string `json:"error,omitempty"`
}

// printer writes either human tables or JSON envelopes.
type printer struct {
	out    io.Writer
	errOut io.Writer
	json   bool
}

// result prints data as JSON, or calls human to render it as text.
func (p *printer) result(data any, human func()) error {
	if p.json {
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(JSONResponse{Success: true, Data: data})
	}
	human()
	return nil
}

// success prints a confirmation. In JSON mode data is the payload instead.
func (p *printer) success(message string, data any) error {
	return p.result(data, func() { fmt.Fprintf(p.out, "✓ %s\n", message) })
}

func (p *printer) warn(message string) {
	fmt.Fprintf(p.errOut, "⚠ %s\n", message)
}

func (p *printer) table(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func (p *printer) fields(pairs ...string) {
	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		fmt.Fprintf(w, "%s:\t%s\n", pairs[i], pairs[i+1])
	}
	_ = w.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

// plain flattens sanitised HTML for a terminal and trims it to limit runes.
func plain(html string, limit int) string {
	text := strings.Join(strings.Fields(alumnisdk.VisibleText(html)), " ")
	if limit > 0 {
		if r := []rune(text); len(r) > limit {
			return string(r[:limit-1]) + "…"
		}
	}
	return text
}

func postRows(posts []alumnisdk.Post) [][]string {
	out := make([][]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, []string{
			p.ID, p.Category, plain(p.Title, 48), p.Author.Name,
			fmt.Sprint(len(p.Comments)), formatTime(p.CreatedAt),
		})
	}
	return out
}

var postHeaders = []string{"ID", "CATEGORY", "TITLE", "AUTHOR", "COMMENTS", "CREATED"}
