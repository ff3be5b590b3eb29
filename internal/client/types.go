package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// 响应镜像结构。指针字段对应服务端始终在场、可能为 null 的 camelCase 字段。

// JobSkill 是岗位上的一个技能标签。
type JobSkill struct {
	ID       uint   `json:"id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

// Employer 是岗位详情里内嵌的雇主信息。
type Employer struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	OrgType    string `json:"orgType"`
	Website    string `json:"website"`
	Verified   bool   `json:"verified"`
	LogoFileID *uint  `json:"logoFileId"`
}

// Job 是岗位详情。四组类型相关字段始终在场，与 Type 不符的为 null。
type Job struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Location    *string `json:"location"`
	SalaryRange *string `json:"salaryRange"`
	Status      string  `json:"status"`

	ProjectDuration *string `json:"projectDuration"`
	Budget          *string `json:"budget"`
	Deadline        *string `json:"deadline"`
	Deliverables    *string `json:"deliverables"`

	InternshipDuration *string `json:"internshipDuration"`
	Stipend            *string `json:"stipend"`
	StartDate          *string `json:"startDate"`
	LearningObjectives *string `json:"learningObjectives"`

	HoursPerWeek *string `json:"hoursPerWeek"`
	Schedule     *string `json:"schedule"`
	HourlyRate   *string `json:"hourlyRate"`

	WorkArrangement   *string `json:"workArrangement"`
	StartDateFullTime *string `json:"startDateFullTime"`
	ProbationPeriod   *string `json:"probationPeriod"`
	Benefits          *string `json:"benefits"`

	Skills   []JobSkill `json:"skills"`
	Employer Employer   `json:"employer"`
}

// MissingSkill 是推荐结果中缺失的一项技能。
type MissingSkill struct {
	SkillID   uint   `json:"skillId"`
	Name      string `json:"name"`
	Mandatory bool   `json:"mandatory"`
}

// RecommendedJob 在 Job 上附加匹配信息。
type RecommendedJob struct {
	Job
	MatchScore          int            `json:"matchScore"`
	MatchingSkillsCount int            `json:"matchingSkillsCount"`
	MandatoryMissing    bool           `json:"mandatoryMissing"`
	MissingSkills       []MissingSkill `json:"missingSkills"`
}

// SeekerSkill 是人才档案上的技能与熟练度。
type SeekerSkill struct {
	ID    uint   `json:"id"`
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Freelancer 是人才详情。
type Freelancer struct {
	ID              uint            `json:"id"`
	UserID          uint            `json:"userId"`
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	Profession      string          `json:"profession"`
	Headline        string          `json:"headline"`
	Bio             string          `json:"bio"`
	YearsExperience int             `json:"yearsExperience"`
	Pathway         string          `json:"pathway"`
	Availability    string          `json:"availability"`
	ResumeFileID    *uint           `json:"resumeFileId"`
	Skills          []SeekerSkill   `json:"skills"`
	Education       json.RawMessage `json:"education"`
	Training        json.RawMessage `json:"training"`
	Experience      json.RawMessage `json:"experience"`
	Portfolio       json.RawMessage `json:"portfolio"`
}

// Skill 是技能字典项。
type Skill struct {
	ID   uint   `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Region 是行政区参考项。
type Region struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// JobFilter 限定岗位浏览结果。
type JobFilter struct {
	Search   string
	Type     string
	Location string
}

// GetJob 拉取一条岗位详情。
func (c *Client) GetJob(ctx context.Context, id uint) (*Job, error) {
	var job Job
	if err := c.do(ctx, http.MethodGet, "/api/jobs/"+strconv.FormatUint(uint64(id), 10), nil, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// ListAvailableJobs 浏览开放岗位。
func (c *Client) ListAvailableJobs(ctx context.Context, filter JobFilter) ([]Job, error) {
	query := url.Values{}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.Type != "" {
		query.Set("type", filter.Type)
	}
	if filter.Location != "" {
		query.Set("location", filter.Location)
	}

	var resp struct {
		Jobs []Job `json:"jobs"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/jobs/available", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}

// ListRecommendedJobs 拉取按技能匹配排序的推荐岗位（需要求职者身份）。
func (c *Client) ListRecommendedJobs(ctx context.Context) ([]RecommendedJob, error) {
	var resp struct {
		Jobs []RecommendedJob `json:"jobs"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/jobs/recommended", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}

// GetFreelancer 拉取一条人才详情。
func (c *Client) GetFreelancer(ctx context.Context, id uint) (*Freelancer, error) {
	var profile Freelancer
	if err := c.do(ctx, http.MethodGet, "/api/freelancers/"+strconv.FormatUint(uint64(id), 10), nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetTalent 以雇主身份拉取人才详情。
func (c *Client) GetTalent(ctx context.Context, id uint) (*Freelancer, error) {
	var resp struct {
		Talent Freelancer `json:"talent"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/talents/"+strconv.FormatUint(uint64(id), 10), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Talent, nil
}

// Skills 拉取技能字典。
func (c *Client) Skills(ctx context.Context) ([]Skill, error) {
	var resp struct {
		Skills []Skill `json:"skills"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/skills", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Skills, nil
}

// Regions 拉取行政区参考数据。
func (c *Client) Regions(ctx context.Context) ([]Region, error) {
	var resp struct {
		Regions []Region `json:"regions"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/locations/regions", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Regions, nil
}

// ApplicationRequest 是投递请求体。
type ApplicationRequest struct {
	JobID             uint   `json:"jobId"`
	CoverLetterText   string `json:"coverLetterText,omitempty"`
	CoverLetterFileID *uint  `json:"coverLetterFileId,omitempty"`
	ExpectedPay       string `json:"expectedPay,omitempty"`
}

// Apply 投递一个岗位，返回投递 ID。
func (c *Client) Apply(ctx context.Context, req ApplicationRequest) (uint, error) {
	var resp struct {
		ApplicationID uint `json:"applicationId"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/applications/apply", nil, req, &resp); err != nil {
		return 0, err
	}
	return resp.ApplicationID, nil
}

// RecruitRequest 是雇主邀请请求体。
type RecruitRequest struct {
	TalentID uint   `json:"talentId"`
	JobID    uint   `json:"jobId"`
	Message  string `json:"message,omitempty"`
}

// Recruit 向人才发出岗位邀请，返回对方是否已有简历。
func (c *Client) Recruit(ctx context.Context, req RecruitRequest) (hasResume bool, err error) {
	var resp struct {
		HasResume bool `json:"hasResume"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/employer/recruit", nil, req, &resp); err != nil {
		return false, err
	}
	return resp.HasResume, nil
}
