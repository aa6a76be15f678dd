// Package testutil 测试用的文件构造工具
package testutil

import (
	"archive/zip"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const documentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const documentFooter = `</w:body></w:document>`

// WriteDocx 写出只包含 word/document.xml 的最小 docx，body 为 w:body 内部的 XML
func WriteDocx(t testing.TB, path string, body ...string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	part, err := zw.Create("word/document.xml")
	require.NoError(t, err)

	_, err = part.Write([]byte(documentHeader))
	require.NoError(t, err)
	for _, b := range body {
		_, err = part.Write([]byte(b))
		require.NoError(t, err)
	}
	_, err = part.Write([]byte(documentFooter))
	require.NoError(t, err)

	require.NoError(t, zw.Close())
}

// WriteFile 写出文本文件，自动创建目录
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// Para 纯文本段落
func Para(text string) string {
	return `<w:p><w:r><w:t xml:space="preserve">` + html.EscapeString(text) + `</w:t></w:r></w:p>`
}

// Heading 标题段落
func Heading(level int, text string) string {
	return fmt.Sprintf(`<w:p><w:pPr><w:pStyle w:val="Heading%d"/></w:pPr><w:r><w:t>%s</w:t></w:r></w:p>`, level, html.EscapeString(text))
}

// Bullet 列表项段落
func Bullet(text string) string {
	return `<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr><w:r><w:t>` +
		html.EscapeString(text) + `</w:t></w:r></w:p>`
}

// Bold 带一个粗体片段的段落
func Bold(prefix, bold string) string {
	return `<w:p><w:r><w:t xml:space="preserve">` + html.EscapeString(prefix) + `</w:t></w:r>` +
		`<w:r><w:rPr><w:b/></w:rPr><w:t>` + html.EscapeString(bold) + `</w:t></w:r></w:p>`
}
