// Package render produces the self-contained snapshot pages: the ordered
// item list, source names and dates are inlined as JSON, and the embedded
// script reimplements the visibility pass from app/filter so every
// interaction is resolved client-side. No server-side pagination or query
// endpoint exists.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"sort"
	"strings"

	"newsraw/app/store"
)

type Generator struct {
	threshold float64
	version   string
}

func NewGenerator(similarityThreshold float64, version string) *Generator {
	return &Generator{
		threshold: similarityThreshold,
		version:   version,
	}
}

// pageItem mirrors the shape the embedded script expects. Field names stay
// terse because the whole item list is inlined into every page.
type pageItem struct {
	Link        string `json:"l"`
	Title       string `json:"t"`
	Description string `json:"d"`
	Source      string `json:"s"`
	Date        string `json:"dt"`
}

type pageData struct {
	Items     []pageItem `json:"items"`
	Sources   []string   `json:"sources"`
	Dates     []string   `json:"dates"`
	Threshold float64    `json:"threshold"`
}

// Live renders the main page over the most recent articles.
func (g *Generator) Live(items []store.Article, sources []string, dates []string) (string, error) {
	return g.run("Japan News Raw", items, sources, dates)
}

// Archive renders the immutable page for one past calendar date.
func (g *Generator) Archive(date string, items []store.Article) (string, error) {
	seen := make(map[string]bool)
	for _, a := range items {
		seen[a.Source] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	return g.run(fmt.Sprintf("Japan News Raw / %s", date), items, names, nil)
}

// run assembles one page. An empty dates slice renders no date toggle row;
// archive pages hold a single date, so a day switcher would be dead weight.
func (g *Generator) run(title string, items []store.Article, sources []string, dates []string) (string, error) {
	if dates == nil {
		dates = []string{}
	}

	data := pageData{
		Items:     make([]pageItem, 0, len(items)),
		Sources:   sources,
		Dates:     dates,
		Threshold: g.threshold,
	}
	for _, a := range items {
		data.Items = append(data.Items, pageItem{
			Link:        a.Link,
			Title:       a.Title,
			Description: a.Description,
			Source:      a.Source,
			Date:        a.DiscoveryDate,
		})
	}

	// encoding/json escapes <, > and & by default, so the payload is safe
	// to inline into a script element.
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to serialize page data: %w", err)
	}

	var buf bytes.Buffer

	buf.WriteString("<!DOCTYPE html>\n")
	// lang=ja so browsers offer translation of the mostly-Japanese items.
	buf.WriteString("<html lang=\"ja\">\n<head>\n")
	buf.WriteString("<meta charset=\"UTF-8\">\n")
	buf.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	g.writeElement(&buf, "title", title)
	buf.WriteString("<style>")
	buf.WriteString(pageStyle)
	buf.WriteString("</style>\n</head>\n<body>\n")

	buf.WriteString("<div class=\"header\">\n")
	g.writeElement(&buf, "h1", title)
	buf.WriteString("<input type=\"text\" id=\"q\" placeholder=\"Search...\">\n")
	buf.WriteString("<select id=\"scope\">")
	buf.WriteString("<option value=\"all\">Title + description</option>")
	buf.WriteString("<option value=\"title\">Title only</option>")
	buf.WriteString("<option value=\"description\">Description only</option>")
	buf.WriteString("</select>\n")
	buf.WriteString("<button class=\"btn active\" id=\"grouping\">GROUP DUPLICATES</button>\n")

	buf.WriteString("<div class=\"toggles\" id=\"sources\">\n")
	for _, name := range sources {
		fmt.Fprintf(&buf, "<button class=\"btn active src-b\" data-s=\"%s\">%s</button>\n",
			html.EscapeString(name), html.EscapeString(strings.ToUpper(name)))
	}
	buf.WriteString("</div>\n")

	if len(dates) > 0 {
		buf.WriteString("<div class=\"toggles\" id=\"dates\">\n")
		buf.WriteString("<button class=\"btn active date-b\" data-dt=\"all\">ALL DAYS</button>\n")
		for _, date := range dates {
			fmt.Fprintf(&buf, "<button class=\"btn date-b\" data-dt=\"%s\">%s</button>\n",
				html.EscapeString(date), html.EscapeString(date))
		}
		buf.WriteString("</div>\n")
	}
	buf.WriteString("</div>\n")

	buf.WriteString("<div id=\"feed\">\n")
	for _, item := range data.Items {
		g.writeCard(&buf, item)
	}
	buf.WriteString("</div>\n")

	fmt.Fprintf(&buf, "<div class=\"footer\">newsraw/%s</div>\n", html.EscapeString(g.version))

	buf.WriteString("<script>const DATA=")
	buf.Write(payload)
	buf.WriteString(";\n")
	buf.WriteString(pageScript)
	buf.WriteString("</script>\n</body>\n</html>\n")

	return buf.String(), nil
}

func (g *Generator) writeCard(buf *bytes.Buffer, item pageItem) {
	fmt.Fprintf(buf, "<div class=\"article\" data-l=\"%s\">\n", html.EscapeString(item.Link))
	fmt.Fprintf(buf, "<div class=\"badge\">%s | %s<span class=\"dup hidden\"> | has similar duplicate</span></div>\n",
		html.EscapeString(strings.ToUpper(item.Source)), html.EscapeString(item.Date))
	fmt.Fprintf(buf, "<a href=\"%s\" target=\"_blank\" rel=\"noopener\">%s</a>\n",
		html.EscapeString(item.Link), html.EscapeString(item.Title))
	if item.Description != "" {
		fmt.Fprintf(buf, "<div class=\"summary\">%s</div>\n", html.EscapeString(item.Description))
	}
	buf.WriteString("</div>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string) {
	if content == "" {
		return
	}
	fmt.Fprintf(buf, "<%s>%s</%s>\n", tag, html.EscapeString(content), tag)
}
