package viewer

import (
	"html"
	"strings"
)

var ansiColors = map[string]string{
	"30": "#555", "31": "#ff5572", "32": "#c3e88d",
	"33": "#ffcb6b", "34": "#82aaff", "35": "#c792ea",
	"36": "#89ddff", "37": "#e0e0e0",
	"90": "#888", "91": "#ff8a98", "92": "#ddffa7",
	"93": "#ffe083", "94": "#a0c4ff", "95": "#ddb0ff",
	"96": "#a8f0ff", "97": "#ffffff",
}

// ansiToHTML converts ANSI SGR escape sequences to HTML spans. The input
// is HTML-escaped first; the ESC control byte survives escaping so the
// scan runs over the escaped text.
func ansiToHTML(text string) string {
	text = html.EscapeString(text)

	var b strings.Builder
	openSpans := 0
	for i := 0; i < len(text); {
		if text[i] == 0x1b && i+1 < len(text) && text[i+1] == '[' {
			j := i + 2
			for j < len(text) && j < i+20 && text[j] != 'm' {
				j++
			}
			if j < len(text) && text[j] == 'm' {
				codes := strings.Split(text[i+2:j], ";")
				if openSpans > 0 {
					b.WriteString("</span>")
					openSpans--
				}
				if !(len(codes) == 1 && (codes[0] == "" || codes[0] == "0")) {
					var style []string
					for _, c := range codes {
						if c == "1" {
							style = append(style, "font-weight:bold")
						} else if color, ok := ansiColors[c]; ok {
							style = append(style, "color:"+color)
						}
					}
					if len(style) > 0 {
						b.WriteString(`<span style="` + strings.Join(style, ";") + `">`)
						openSpans++
					}
				}
				i = j + 1
				continue
			}
		}
		b.WriteByte(text[i])
		i++
	}
	for ; openSpans > 0; openSpans-- {
		b.WriteString("</span>")
	}
	return b.String()
}
