package extract

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"path/filepath"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

const documentPart = "word/document.xml"

// ErrNoDocumentPart docx 中缺少 word/document.xml
var ErrNoDocumentPart = errors.New("missing " + documentPart)

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// Docx 将 Word 文档转换为 markdown：document.xml -> HTML -> markdown。
// 旧版二进制 .doc 不是 zip 包，返回 ErrUnsupportedFormat。
func Docx(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return "", fmt.Errorf("%w: %s is not an OOXML document", ErrUnsupportedFormat, filepath.Base(path))
		}
		return "", err
	}
	defer zr.Close()

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return "", ErrNoDocumentPart
	}

	rc, err := part.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	body, err := DocumentHTML(rc)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", documentPart, err)
	}

	md, err := mdConverter.ConvertString(body)
	if err != nil {
		return "", fmt.Errorf("html to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

// paragraph 正在解析的段落
type paragraph struct {
	style    string
	numbered bool
	body     strings.Builder
}

// run 正在解析的文本片段
type run struct {
	bold   bool
	italic bool
	text   strings.Builder
}

// htmlWriter 把 WordprocessingML 的 token 流写成简单 HTML
type htmlWriter struct {
	out    strings.Builder
	para   *paragraph
	run    *run
	inText bool
	inList bool
	cells  int // 当前所在表格单元格嵌套深度
}

// DocumentHTML 将 word/document.xml 转换为 HTML 片段。
// 只保留标题、列表、粗体/斜体、换行和表格。
func DocumentHTML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	w := &htmlWriter{}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			w.start(t)
		case xml.EndElement:
			w.end(t.Name.Local)
		case xml.CharData:
			if w.inText && w.run != nil {
				w.run.text.Write(t)
			}
		}
	}
	w.closeList()
	return w.out.String(), nil
}

func (w *htmlWriter) start(t xml.StartElement) {
	switch t.Name.Local {
	case "p":
		w.para = &paragraph{}
	case "pStyle":
		if w.para != nil {
			w.para.style = attr(t, "val")
		}
	case "numPr":
		if w.para != nil {
			w.para.numbered = true
		}
	case "r":
		w.run = &run{}
	case "t":
		w.inText = true
	case "b":
		if w.run != nil {
			w.run.bold = on(t)
		}
	case "i":
		if w.run != nil {
			w.run.italic = on(t)
		}
	case "tab":
		if w.run != nil {
			w.run.text.WriteString(" ")
		}
	case "br", "cr":
		if w.run != nil {
			w.flushRun()
			w.run = &run{}
			if w.para != nil {
				w.para.body.WriteString("<br>")
			}
		}
	case "tbl":
		w.closeList()
		w.out.WriteString("<table>")
	case "tr":
		w.out.WriteString("<tr>")
	case "tc":
		w.cells++
		w.out.WriteString("<td>")
	}
}

func (w *htmlWriter) end(local string) {
	switch local {
	case "t":
		w.inText = false
	case "r":
		w.flushRun()
		w.run = nil
	case "p":
		w.flushParagraph()
	case "tc":
		w.cells--
		w.out.WriteString("</td>")
	case "tr":
		w.out.WriteString("</tr>")
	case "tbl":
		w.out.WriteString("</table>")
	}
}

func (w *htmlWriter) flushRun() {
	if w.run == nil || w.para == nil || w.run.text.Len() == 0 {
		return
	}
	text := html.EscapeString(w.run.text.String())
	if w.run.italic {
		text = "<em>" + text + "</em>"
	}
	if w.run.bold {
		text = "<strong>" + text + "</strong>"
	}
	w.para.body.WriteString(text)
}

func (w *htmlWriter) flushParagraph() {
	p := w.para
	w.para = nil
	if p == nil {
		return
	}
	body := strings.TrimSpace(p.body.String())

	// 单元格内的段落直接拼接
	if w.cells > 0 {
		if body != "" {
			w.out.WriteString(body + " ")
		}
		return
	}
	if body == "" {
		return
	}

	if level := headingLevel(p.style); level > 0 {
		w.closeList()
		fmt.Fprintf(&w.out, "<h%d>%s</h%d>\n", level, body, level)
		return
	}
	if p.numbered || isListStyle(p.style) {
		if !w.inList {
			w.out.WriteString("<ul>\n")
			w.inList = true
		}
		w.out.WriteString("<li>" + body + "</li>\n")
		return
	}
	w.closeList()
	w.out.WriteString("<p>" + body + "</p>\n")
}

func (w *htmlWriter) closeList() {
	if w.inList {
		w.out.WriteString("</ul>\n")
		w.inList = false
	}
}

// headingLevel 识别 Heading1..Heading6 / Title 样式
func headingLevel(style string) int {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	if s == "title" {
		return 1
	}
	if strings.HasPrefix(s, "heading") && len(s) == len("heading")+1 {
		if n := s[len(s)-1]; n >= '1' && n <= '6' {
			return int(n - '0')
		}
	}
	return 0
}

func isListStyle(style string) bool {
	return strings.HasPrefix(strings.ToLower(strings.ReplaceAll(style, " ", "")), "listparagraph")
}

func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// on 处理 <w:b/>、<w:b w:val="0"/> 这类开关属性
func on(t xml.StartElement) bool {
	switch attr(t, "val") {
	case "0", "false", "off":
		return false
	}
	return true
}
