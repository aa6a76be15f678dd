package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iWorld-y/gen_report/internal/model"
)

const intro = "You are an assistant that aggregates individual weekly engineering reports into a concise, well-structured department report. " +
	"Summarize achievements, ongoing work, issues/risks, metrics, and next week plan. Keep factual, merge duplicates, and preserve important numbers.\n"

const closing = "Generate the consolidated department weekly report in markdown now."

// AliasGroup 同一个项目的多个叫法
type AliasGroup struct {
	Project string
	Names   []string
}

// DefaultAliases 内置的项目别名分组
var DefaultAliases = []AliasGroup{
	{Project: "螺絲案", Names: []string{"BONY觸控一體機", "得鑫螺絲", "得鑫螺絲HMI", "EBONY觸控一體機"}},
	{Project: "iMotion-3dof", Names: []string{"Resymot", "Resymot GUI", "iMotion-XYZ控制器"}},
	{Project: "教育訓練", Names: []string{"育成計畫", "新人訓練"}},
}

// Builder 组装发给 LLM 的 prompt
type Builder struct {
	aliases []AliasGroup
}

// NewBuilder 创建 Builder，aliases 为空时使用 DefaultAliases
func NewBuilder(aliases []AliasGroup) *Builder {
	if len(aliases) == 0 {
		aliases = DefaultAliases
	}
	return &Builder{aliases: aliases}
}

// Instructions 项目分组与格式要求
func (b *Builder) Instructions() string {
	var sb strings.Builder
	sb.WriteString("Format sections based on projects' name.")
	sb.WriteString("Plz try to keep projects consistent between examples and new report.")
	for _, g := range b.aliases {
		quoted := make([]string, len(g.Names))
		for i, n := range g.Names {
			quoted[i] = "'" + n + "'"
		}
		fmt.Fprintf(&sb, "%s... 都屬於'%s'的一部份。", strings.Join(quoted, ","), g.Project)
	}
	sb.WriteString("Use bullet points; group similar items.")
	return sb.String()
}

// Build 拼出完整 prompt：说明、可选的 few-shot 示例、本周各成员周报。
// examples 为空时省略整个 FEW-SHOT EXAMPLES 段。
func (b *Builder) Build(members []string, examples string) string {
	var sb strings.Builder
	sb.WriteString(intro)
	sb.WriteString(b.Instructions())
	sb.WriteString("\n")

	if examples != "" {
		sb.WriteString("\nFEW-SHOT EXAMPLES:\n")
		sb.WriteString(examples)
		sb.WriteString("\n")
	}

	sb.WriteString("\nTARGET INPUT:\n")
	for i, txt := range members {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "<REPORT index=%d>\n%s\n</REPORT>", i+1, txt)
	}
	sb.WriteString("\n\n")
	sb.WriteString(closing)
	return sb.String()
}

// Build 使用默认别名分组组装 prompt
func Build(members []string, examples string) string {
	return NewBuilder(nil).Build(members, examples)
}

// BuildFewShotExamples 渲染 few-shot 示例，日期从新到旧。
// 日期是 8 位 YYYYMMDD，字典序即时间序。
func BuildFewShotExamples(weeks []model.ExampleWeek) string {
	if len(weeks) == 0 {
		return ""
	}

	sorted := make([]model.ExampleWeek, len(weeks))
	copy(sorted, weeks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})

	blocks := make([]string, 0, len(sorted))
	for _, w := range sorted {
		blocks = append(blocks, fmt.Sprintf(
			"<EXAMPLE_WEEK date=%s>\n<INPUT>\n%s\n</INPUT>\n<OUTPUT>\n%s\n</OUTPUT>\n</EXAMPLE_WEEK>",
			w.Date, strings.Join(w.MemberReports, "\n"), w.TeamReport,
		))
	}
	return strings.Join(blocks, "\n\n")
}
