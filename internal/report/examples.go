package report

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iWorld-y/gen_report/internal/extract"
	"github.com/iWorld-y/gen_report/internal/logger"
	"github.com/iWorld-y/gen_report/internal/model"
)

// TeamReportHint 部门周报文件名中包含的标记
const TeamReportHint = "之工作報告"

// CollectExamples 从一个历史目录中收集示例周。
// 成员周报按日期分组；只有找到非空部门周报的日期才会保留。
func CollectExamples(dir string) []model.ExampleWeek {
	if dir == "" {
		return nil
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		logger.Log.Warnf("示例目录不存在，跳过 [%s]", dir)
		return nil
	}

	members, err := Scan(dir)
	if err != nil {
		logger.Log.Warnf("扫描示例目录失败 [%s]: %v", dir, err)
		return nil
	}

	byDate := make(map[string][]string)
	var dates []string
	for _, r := range members {
		// 部门周报也符合成员命名规则，不能当成输入
		if strings.Contains(filepath.Base(r.Path), TeamReportHint) {
			continue
		}
		r.Text = extract.Text(r.Path)
		if r.Text == "" {
			continue
		}
		if _, ok := byDate[r.Date]; !ok {
			dates = append(dates, r.Date)
		}
		byDate[r.Date] = append(byDate[r.Date], r.Chunk())
	}
	sort.Strings(dates)

	candidates := teamCandidates(dir)

	var weeks []model.ExampleWeek
	for _, date := range dates {
		team := pickTeamReport(date, candidates)
		if team == "" {
			logger.Log.Debugf("日期 [%s] 没有部门周报，跳过 (%s)", date, dir)
			continue
		}
		weeks = append(weeks, model.ExampleWeek{
			Date:          date,
			MemberReports: byDate[date],
			TeamReport:    team,
		})
	}
	return weeks
}

// teamCandidates 目录下文件名包含 TeamReportHint 的文件，按文件名排序
func teamCandidates(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.Contains(e.Name(), TeamReportHint) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths
}

// pickTeamReport 优先选文件名包含日期的候选，否则退回第一个候选
func pickTeamReport(date string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	var text string
	for _, c := range candidates {
		if strings.Contains(filepath.Base(c), date) {
			text = extract.Text(c)
			break
		}
	}
	if text == "" {
		text = extract.Text(candidates[0])
	}
	return text
}

// CollectExamplesFromDirs 收集多个目录的示例并按日期合并。
// 同一日期的成员周报去重追加，部门周报取第一个非空的，目录顺序决定优先级。
func CollectExamplesFromDirs(dirs []string) []model.ExampleWeek {
	var merged []model.ExampleWeek
	index := make(map[string]int)

	for _, dir := range dirs {
		for _, w := range CollectExamples(dir) {
			i, ok := index[w.Date]
			if !ok {
				index[w.Date] = len(merged)
				merged = append(merged, model.ExampleWeek{
					Date:          w.Date,
					MemberReports: append([]string(nil), w.MemberReports...),
					TeamReport:    w.TeamReport,
				})
				continue
			}

			existing := &merged[i]
			seen := make(map[string]struct{}, len(existing.MemberReports))
			for _, mr := range existing.MemberReports {
				seen[mr] = struct{}{}
			}
			for _, mr := range w.MemberReports {
				if _, dup := seen[mr]; dup {
					continue
				}
				existing.MemberReports = append(existing.MemberReports, mr)
				seen[mr] = struct{}{}
			}
			if existing.TeamReport == "" && w.TeamReport != "" {
				existing.TeamReport = w.TeamReport
			}
		}
	}
	return merged
}
