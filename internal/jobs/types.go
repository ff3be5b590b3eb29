package jobs

import "time"

// 岗位类型。
const (
	TypeGig        = "GIG"
	TypeInternship = "INTERNSHIP"
	TypePartTime   = "PART_TIME"
	TypeFullTime   = "FULL_TIME"
)

// 岗位状态。
const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
)

// Types 按展示顺序列出全部岗位类型。
var Types = []string{TypeGig, TypeInternship, TypePartTime, TypeFullTime}

// ValidType 判断给定值是否为合法岗位类型。
func ValidType(t string) bool {
	switch t {
	case TypeGig, TypeInternship, TypePartTime, TypeFullTime:
		return true
	}
	return false
}

// ValidStatus 判断给定值是否为合法岗位状态。
func ValidStatus(s string) bool {
	return s == StatusOpen || s == StatusClosed
}

// Input 是发布/编辑岗位表单提交的扁平记录：四组类型相关字段同时在场，
// 与当前 Type 无关的组会在 Normalize 时被丢弃。
// 日期一律以 ISO-8601（YYYY-MM-DD）字符串传入。
type Input struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        string       `json:"type"`
	Status      string       `json:"status"`
	Location    *string      `json:"location"`
	SalaryRange *string      `json:"salaryRange"`
	Skills      []SkillInput `json:"skills"`

	// GIG
	ProjectDuration *string `json:"projectDuration"`
	Budget          *string `json:"budget"`
	Deadline        *string `json:"deadline"`
	Deliverables    *string `json:"deliverables"`

	// INTERNSHIP
	InternshipDuration *string `json:"internshipDuration"`
	Stipend            *string `json:"stipend"`
	StartDate          *string `json:"startDate"`
	LearningObjectives *string `json:"learningObjectives"`

	// PART_TIME
	HoursPerWeek *string `json:"hoursPerWeek"`
	Schedule     *string `json:"schedule"`
	HourlyRate   *string `json:"hourlyRate"`

	// FULL_TIME
	WorkArrangement   *string `json:"workArrangement"`
	StartDateFullTime *string `json:"startDateFullTime"`
	ProbationPeriod   *string `json:"probationPeriod"`
	Benefits          *string `json:"benefits"`
}

// SkillInput 是表单中的单个技能条目。
type SkillInput struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

// Record 是规范化后的岗位记录：公共字段加上与 Type 对应的唯一一组变体字段。
// 不变式：四个变体指针中恰好一个非 nil。
type Record struct {
	Title       string
	Description string
	Type        string
	Status      string
	Location    *string
	SalaryRange *string
	Skills      []SkillInput

	Gig        *GigFields
	Internship *InternshipFields
	PartTime   *PartTimeFields
	FullTime   *FullTimeFields
}

// GigFields 是短期项目岗位的专有字段。
type GigFields struct {
	ProjectDuration *string
	Budget          *string
	Deadline        *time.Time
	Deliverables    *string
}

// InternshipFields 是实习岗位的专有字段。
type InternshipFields struct {
	InternshipDuration *string
	Stipend            *string
	StartDate          *time.Time
	LearningObjectives *string
}

// PartTimeFields 是兼职岗位的专有字段。
type PartTimeFields struct {
	HoursPerWeek *string
	Schedule     *string
	HourlyRate   *string
}

// FullTimeFields 是全职岗位的专有字段。
type FullTimeFields struct {
	WorkArrangement *string
	StartDate       *time.Time
	ProbationPeriod *string
	Benefits        *string
}
