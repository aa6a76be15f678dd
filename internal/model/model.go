package model

// MemberReport 单个成员的周报文件
type MemberReport struct {
	Name string // 作者
	Date string // YYYYMMDD
	Ext  string // docx / doc / md
	Path string
	Text string // 抽取后的 markdown 文本
}

// Chunk 渲染为 prompt 中使用的成员片段
func (r MemberReport) Chunk() string {
	return "# " + r.Name + "\n\n" + r.Text
}

// ExampleWeek 历史周的示例：成员周报输入 + 部门周报输出
type ExampleWeek struct {
	Date          string
	MemberReports []string
	TeamReport    string
}
