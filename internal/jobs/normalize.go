package jobs

import (
	"strings"

	"skillshub/internal/database"
)

// Normalize 将表单输入整理成规范记录：
//   - 字符串去除首尾空白，空串折叠为 nil；
//   - 日期解析为 time.Time；
//   - 技能按 slug 去重（保留首个出现的条目）；
//   - 只保留与 Type 对应的变体字段组，其余组整体丢弃。
//
// 来源表单在切换类型时不清空隐藏字段，这里是防止脏值入库的唯一关口。
// 调用方必须先通过 Validate。
func Normalize(in Input) Record {
	rec := Record{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Type:        in.Type,
		Status:      in.Status,
		Location:    trimPtr(in.Location),
		SalaryRange: trimPtr(in.SalaryRange),
		Skills:      dedupSkills(in.Skills),
	}

	switch in.Type {
	case TypeGig:
		rec.Gig = &GigFields{
			ProjectDuration: trimPtr(in.ProjectDuration),
			Budget:          trimPtr(in.Budget),
			Deadline:        parseDate(in.Deadline),
			Deliverables:    trimPtr(in.Deliverables),
		}
	case TypeInternship:
		rec.Internship = &InternshipFields{
			InternshipDuration: trimPtr(in.InternshipDuration),
			Stipend:            trimPtr(in.Stipend),
			StartDate:          parseDate(in.StartDate),
			LearningObjectives: trimPtr(in.LearningObjectives),
		}
	case TypePartTime:
		rec.PartTime = &PartTimeFields{
			HoursPerWeek: trimPtr(in.HoursPerWeek),
			Schedule:     trimPtr(in.Schedule),
			HourlyRate:   trimPtr(in.HourlyRate),
		}
	case TypeFullTime:
		rec.FullTime = &FullTimeFields{
			WorkArrangement: trimPtr(in.WorkArrangement),
			StartDate:       parseDate(in.StartDateFullTime),
			ProbationPeriod: trimPtr(in.ProbationPeriod),
			Benefits:        trimPtr(in.Benefits),
		}
	}

	return rec
}

// Apply 将规范记录写入 GORM 模型。四组变体列全部显式赋值，
// 因此编辑时切换类型会把旧类型的列清回 NULL。
func Apply(rec Record, job *database.Job) {
	job.Title = rec.Title
	job.Description = rec.Description
	job.Type = rec.Type
	job.Status = rec.Status
	job.Location = rec.Location
	job.SalaryRange = rec.SalaryRange

	job.ProjectDuration = nil
	job.Budget = nil
	job.Deadline = nil
	job.Deliverables = nil
	job.InternshipDuration = nil
	job.Stipend = nil
	job.StartDate = nil
	job.LearningObjectives = nil
	job.HoursPerWeek = nil
	job.Schedule = nil
	job.HourlyRate = nil
	job.WorkArrangement = nil
	job.StartDateFullTime = nil
	job.ProbationPeriod = nil
	job.Benefits = nil

	switch {
	case rec.Gig != nil:
		job.ProjectDuration = rec.Gig.ProjectDuration
		job.Budget = rec.Gig.Budget
		job.Deadline = rec.Gig.Deadline
		job.Deliverables = rec.Gig.Deliverables
	case rec.Internship != nil:
		job.InternshipDuration = rec.Internship.InternshipDuration
		job.Stipend = rec.Internship.Stipend
		job.StartDate = rec.Internship.StartDate
		job.LearningObjectives = rec.Internship.LearningObjectives
	case rec.PartTime != nil:
		job.HoursPerWeek = rec.PartTime.HoursPerWeek
		job.Schedule = rec.PartTime.Schedule
		job.HourlyRate = rec.PartTime.HourlyRate
	case rec.FullTime != nil:
		job.WorkArrangement = rec.FullTime.WorkArrangement
		job.StartDateFullTime = rec.FullTime.StartDate
		job.ProbationPeriod = rec.FullTime.ProbationPeriod
		job.Benefits = rec.FullTime.Benefits
	}
}

func trimPtr(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// dedupSkills 用 map 按 slug 去重，线性扫描在这种量级够用但容易写错。
func dedupSkills(skills []SkillInput) []SkillInput {
	seen := make(map[string]struct{}, len(skills))
	out := make([]SkillInput, 0, len(skills))
	for _, s := range skills {
		slug := strings.ToLower(strings.TrimSpace(s.Slug))
		if slug == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		s.Slug = slug
		s.Name = strings.TrimSpace(s.Name)
		out = append(out, s)
	}
	return out
}
