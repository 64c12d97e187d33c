package certificates

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
)

var (
	// parts of a WordprocessingML package that carry visible text
	textPartRe     = regexp.MustCompile(`^word/(document|header\d*|footer\d*|footnotes|endnotes)\.xml$`)
	// opening, self-closing and closing w:p tags; w:pPr and friends do not match
	paragraphTagRe = regexp.MustCompile(`<w:p(?:\s[^>]*)?>|</w:p>`)
	textRunRe      = regexp.MustCompile(`(?s)<w:t(?:\s[^>]*[^/>])?>(.*?)</w:t>`)
)

const preserveOpen = `<w:t xml:space="preserve">`

// renderPackage copies the docx in zr to w, substituting placeholders in every text part.
// Entries keep their order, names, compression method and timestamps, so equal inputs give equal bytes.
func renderPackage(zr *zip.Reader, tokens TokenMap, w io.Writer) error {
	repl, keys := tokens.replacer()
	zw := zip.NewWriter(w)

	for _, f := range zr.File {
		hdr := &zip.FileHeader{
			Name:     f.Name,
			Method:   f.Method,
			Modified: f.Modified,
		}
		dst, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("create %s: %w", f.Name, err)
		}
		if strings.HasSuffix(f.Name, "/") {
			continue
		}

		src, err := f.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return fmt.Errorf("read %s: %w", f.Name, err)
		}

		if textPartRe.MatchString(f.Name) && len(keys) > 0 {
			data = substituteParagraphs(data, repl, keys)
		}
		if _, err := dst.Write(data); err != nil {
			return fmt.Errorf("write %s: %w", f.Name, err)
		}
	}
	return zw.Close()
}

// substituteParagraphs replaces placeholders paragraph by paragraph. The text of all runs
// is joined first, so a placeholder split across runs by Word is still found; a rewritten
// paragraph carries its text in the first run and keeps that run's formatting.
// Paragraphs nested in text boxes (w:txbxContent) are separate paragraphs: runs belong
// to the innermost paragraph that contains them.
func substituteParagraphs(part []byte, repl *strings.Replacer, keys []string) []byte {
	type openParagraph struct {
		start  int
		nested [][2]int
	}
	var (
		stack []*openParagraph
		edits []textEdit
	)
	for _, m := range paragraphTagRe.FindAllIndex(part, -1) {
		tag := part[m[0]:m[1]]
		switch {
		case bytes.HasPrefix(tag, []byte("</")):
			if len(stack) == 0 {
				continue
			}
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			edits = append(edits, paragraphEdits(part, p.start, m[1], p.nested, repl, keys)...)
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.nested = append(parent.nested, [2]int{p.start, m[1]})
			}
		case bytes.HasSuffix(tag, []byte("/>")):
			// empty paragraph
		default:
			stack = append(stack, &openParagraph{start: m[0]})
		}
	}
	if len(edits) == 0 {
		return part
	}

	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })
	var out bytes.Buffer
	last := 0
	for _, e := range edits {
		out.Write(part[last:e.start])
		out.Write(e.text)
		last = e.end
	}
	out.Write(part[last:])
	return out.Bytes()
}

// textEdit replaces part[start:end] with text
type textEdit struct {
	start, end int
	text       []byte
}

// paragraphEdits rewrites the w:t elements of part[start:end] that sit outside the nested paragraphs
func paragraphEdits(part []byte, start, end int, nested [][2]int, repl *strings.Replacer, keys []string) []textEdit {
	var runs [][]int
	for _, m := range textRunRe.FindAllSubmatchIndex(part[start:end], -1) {
		for i := range m {
			m[i] += start
		}
		if !insideAny(m[0], nested) {
			runs = append(runs, m)
		}
	}
	if len(runs) == 0 {
		return nil
	}

	var sb strings.Builder
	for _, m := range runs {
		sb.WriteString(html.UnescapeString(string(part[m[2]:m[3]])))
	}
	text := sb.String()
	if !containsAny(text, keys) {
		return nil
	}

	edits := make([]textEdit, 0, len(runs))
	for i, m := range runs {
		var buf bytes.Buffer
		if i == 0 {
			writeRunText(&buf, repl.Replace(text))
		} else {
			buf.WriteString("<w:t></w:t>")
		}
		edits = append(edits, textEdit{start: m[0], end: m[1], text: buf.Bytes()})
	}
	return edits
}

func insideAny(pos int, spans [][2]int) bool {
	for _, s := range spans {
		if pos >= s[0] && pos < s[1] {
			return true
		}
	}
	return false
}

// writeRunText escapes s into one or more w:t elements, turning newlines into line breaks.
func writeRunText(out *bytes.Buffer, s string) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			out.WriteString("<w:br/>")
		}
		out.WriteString(preserveOpen)
		xml.EscapeText(out, []byte(line))
		out.WriteString("</w:t>")
	}
}

func containsAny(s string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
