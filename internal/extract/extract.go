package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/iWorld-y/gen_report/internal/logger"
)

var (
	// ErrUnsupportedFormat 无法抽取文本的文件格式
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrInvalidUTF8 markdown 文件不是合法的 UTF-8
	ErrInvalidUTF8 = errors.New("invalid utf-8")
)

// File 将文件内容抽取为 markdown 文本。
// 返回 ("", nil) 表示文件没有内容，返回 error 表示抽取失败。
func File(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %s", ErrInvalidUTF8, filepath.Base(path))
		}
		return strings.TrimSpace(string(data)), nil
	case ".docx", ".doc":
		return Docx(path)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Text 容错版本的 File，抽取失败时记录日志并当作空内容
func Text(path string) string {
	text, err := File(path)
	if err != nil {
		logger.Log.Warnf("抽取文本失败，按空内容处理 [%s]: %v", path, err)
		return ""
	}
	return text
}
