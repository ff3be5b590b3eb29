package jobs

import (
	"sort"
	"strings"
	"time"
)

// dateLayout 是表单日期的唯一可接受格式。
const dateLayout = "2006-01-02"

// FieldErrors 将字段名映射到该字段的校验错误消息。
type FieldErrors map[string]string

// Error 实现 error 接口，按字段名排序拼接，便于日志输出稳定。
func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "no validation errors"
	}
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return strings.Join(parts, "; ")
}

// Validate 按提交前校验规则检查表单输入，返回 nil 或逐字段错误集合。
// 只校验与所选 Type 相关的日期字段：隐藏组里的残留值不会阻塞提交。
func Validate(in Input) FieldErrors {
	fe := FieldErrors{}

	if len(strings.TrimSpace(in.Title)) < 3 {
		fe["title"] = "title must be at least 3 characters"
	}
	if len(strings.TrimSpace(in.Description)) < 20 {
		fe["description"] = "description must be at least 20 characters"
	}
	if !ValidType(in.Type) {
		fe["type"] = "type must be one of GIG, INTERNSHIP, PART_TIME, FULL_TIME"
	}
	if !ValidStatus(in.Status) {
		fe["status"] = "status must be OPEN or CLOSED"
	}
	if in.Location != nil {
		if trimmed := strings.TrimSpace(*in.Location); trimmed != "" && len(trimmed) < 2 {
			fe["location"] = "location must be at least 2 characters"
		}
	}
	if len(in.Skills) == 0 {
		fe["skills"] = "add at least one skill"
	}

	switch in.Type {
	case TypeGig:
		checkDate(fe, "deadline", in.Deadline)
	case TypeInternship:
		checkDate(fe, "startDate", in.StartDate)
	case TypeFullTime:
		checkDate(fe, "startDateFullTime", in.StartDateFullTime)
	}

	if len(fe) == 0 {
		return nil
	}
	return fe
}

func checkDate(fe FieldErrors, field string, raw *string) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return
	}
	if _, err := time.Parse(dateLayout, strings.TrimSpace(*raw)); err != nil {
		fe[field] = "must be a valid date in YYYY-MM-DD format"
	}
}

// parseDate 假定字符串已通过 Validate，解析失败时返回 nil 而不是静默取当前时间。
func parseDate(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, trimmed)
	if err != nil {
		return nil
	}
	return &t
}
