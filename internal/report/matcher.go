package report

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/iWorld-y/gen_report/internal/extract"
	"github.com/iWorld-y/gen_report/internal/model"
)

// memberReportRegex 成员周报文件名：<name>工作報告-<YYYYMMDD>.<docx|doc|md>
var memberReportRegex = regexp.MustCompile(`^(?P<name>.+?)工作報告-(?P<date>\d{8})\.(?P<ext>docx|doc|md)$`)

// ParseName 解析成员周报文件名，不匹配时 ok 为 false
func ParseName(filename string) (name, date, ext string, ok bool) {
	m := memberReportRegex.FindStringSubmatch(filename)
	if m == nil {
		return "", "", "", false
	}
	return m[1], m[2], m[3], true
}

// Scan 列出目录下（不递归）所有符合命名规则的成员周报，按文件名排序。
// 目录不存在时返回错误，由调用方先检查。
func Scan(dir string) ([]model.MemberReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var reports []model.MemberReport
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name, date, ext, ok := ParseName(e.Name())
		if !ok {
			continue
		}
		reports = append(reports, model.MemberReport{
			Name: name,
			Date: date,
			Ext:  ext,
			Path: filepath.Join(dir, e.Name()),
		})
	}
	return reports, nil
}

// Gather 扫描目录并抽取文本，跳过内容为空的周报
func Gather(dir string) ([]model.MemberReport, error) {
	reports, err := Scan(dir)
	if err != nil {
		return nil, err
	}

	out := reports[:0]
	for _, r := range reports {
		r.Text = extract.Text(r.Path)
		if r.Text == "" {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
