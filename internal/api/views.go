package api

import (
	"time"

	"gorm.io/datatypes"

	"skillshub/internal/database"
)

// 响应序列化结构。字段名与前端约定为 camelCase；
// 四组类型相关字段始终在场，与岗位类型不符的为 null。

type jobSkillView struct {
	ID       uint   `json:"id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

type employerView struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	OrgType    string `json:"orgType"`
	Website    string `json:"website,omitempty"`
	Verified   bool   `json:"verified"`
	LogoFileID *uint  `json:"logoFileId"`
}

type jobView struct {
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

	Skills    []jobSkillView `json:"skills"`
	Employer  employerView   `json:"employer"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func newJobView(job database.Job) jobView {
	skills := make([]jobSkillView, 0, len(job.Skills))
	for _, js := range job.Skills {
		skills = append(skills, jobSkillView{
			ID:       js.SkillID,
			Slug:     js.Skill.Slug,
			Name:     js.Skill.Name,
			Required: js.Required,
		})
	}

	return jobView{
		ID:          job.ID,
		Title:       job.Title,
		Description: job.Description,
		Type:        job.Type,
		Location:    job.Location,
		SalaryRange: job.SalaryRange,
		Status:      job.Status,

		ProjectDuration: job.ProjectDuration,
		Budget:          job.Budget,
		Deadline:        formatDate(job.Deadline),
		Deliverables:    job.Deliverables,

		InternshipDuration: job.InternshipDuration,
		Stipend:            job.Stipend,
		StartDate:          formatDate(job.StartDate),
		LearningObjectives: job.LearningObjectives,

		HoursPerWeek: job.HoursPerWeek,
		Schedule:     job.Schedule,
		HourlyRate:   job.HourlyRate,

		WorkArrangement:   job.WorkArrangement,
		StartDateFullTime: formatDate(job.StartDateFullTime),
		ProbationPeriod:   job.ProbationPeriod,
		Benefits:          job.Benefits,

		Skills: skills,
		Employer: employerView{
			ID:         job.Employer.ID,
			Name:       job.Employer.Name,
			OrgType:    job.Employer.OrgType,
			Website:    job.Employer.Website,
			Verified:   job.Employer.Verified,
			LogoFileID: job.Employer.LogoFileID,
		},
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

type seekerSkillView struct {
	ID    uint   `json:"id"`
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type freelancerView struct {
	ID              uint              `json:"id"`
	UserID          uint              `json:"userId"`
	FirstName       string            `json:"firstName"`
	LastName        string            `json:"lastName"`
	Profession      string            `json:"profession"`
	Headline        string            `json:"headline"`
	Bio             string            `json:"bio,omitempty"`
	YearsExperience int               `json:"yearsExperience"`
	Pathway         string            `json:"pathway"`
	Availability    string            `json:"availability"`
	ResumeFileID    *uint             `json:"resumeFileId"`
	Skills          []seekerSkillView `json:"skills"`
	Education       datatypes.JSON    `json:"education,omitempty"`
	Training        datatypes.JSON    `json:"training,omitempty"`
	Experience      datatypes.JSON    `json:"experience,omitempty"`
	Portfolio       datatypes.JSON    `json:"portfolio,omitempty"`
}

func newFreelancerView(profile database.SeekerProfile) freelancerView {
	skills := make([]seekerSkillView, 0, len(profile.Skills))
	for _, ss := range profile.Skills {
		skills = append(skills, seekerSkillView{
			ID:    ss.SkillID,
			Slug:  ss.Skill.Slug,
			Name:  ss.Skill.Name,
			Level: ss.Level,
		})
	}

	return freelancerView{
		ID:              profile.ID,
		UserID:          profile.UserID,
		FirstName:       profile.FirstName,
		LastName:        profile.LastName,
		Profession:      profile.Profession,
		Headline:        profile.Headline,
		Bio:             profile.Bio,
		YearsExperience: profile.YearsExperience,
		Pathway:         profile.Pathway,
		Availability:    profile.Availability,
		ResumeFileID:    profile.ResumeFileID,
		Skills:          skills,
		Education:       profile.Education,
		Training:        profile.Training,
		Experience:      profile.Experience,
		Portfolio:       profile.Portfolio,
	}
}

// listFreelancerView 是浏览列表用的瘦身版本，不携带大字段。
type listFreelancerView struct {
	ID              uint              `json:"id"`
	FirstName       string            `json:"firstName"`
	LastName        string            `json:"lastName"`
	Profession      string            `json:"profession"`
	Headline        string            `json:"headline"`
	YearsExperience int               `json:"yearsExperience"`
	Pathway         string            `json:"pathway"`
	Availability    string            `json:"availability"`
	Skills          []seekerSkillView `json:"skills"`
}

func newListFreelancerView(profile database.SeekerProfile) listFreelancerView {
	full := newFreelancerView(profile)
	return listFreelancerView{
		ID:              full.ID,
		FirstName:       full.FirstName,
		LastName:        full.LastName,
		Profession:      full.Profession,
		Headline:        full.Headline,
		YearsExperience: full.YearsExperience,
		Pathway:         full.Pathway,
		Availability:    full.Availability,
		Skills:          full.Skills,
	}
}
