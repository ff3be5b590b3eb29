package database

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 用户角色。
const (
	RoleSeeker   = "SEEKER"
	RoleEmployer = "EMPLOYER"
	RoleAdmin    = "ADMIN"
)

// 求职者成长路径。
const (
	PathwayStudent  = "STUDENT"
	PathwayGraduate = "GRADUATE"
	PathwayArtisan  = "ARTISAN"
)

// 文件用途分类。
const (
	FileKindResume      = "RESUME"
	FileKindCoverLetter = "COVER_LETTER"
	FileKindLogo        = "LOGO"
	FileKindPortfolio   = "PORTFOLIO"
)

// User 表示系统中的账号信息。
type User struct {
	gorm.Model
	Email              string `gorm:"uniqueIndex;size:150"`
	PasswordHash       string `gorm:"size:255"`
	Role               string `gorm:"size:16;index"`
	Name               string `gorm:"size:120"`
	Phone              string `gorm:"size:30"`
	MustChangePassword bool   `gorm:"default:false"`
}

// EmployerProfile 表示雇主主体，归属于一个 User。
type EmployerProfile struct {
	gorm.Model
	UserID     uint   `gorm:"uniqueIndex"`
	User       User   `gorm:"constraint:OnDelete:CASCADE"`
	Name       string `gorm:"size:160"`
	OrgType    string `gorm:"size:60"`
	Website    string `gorm:"size:255"`
	Verified   bool   `gorm:"default:false"`
	LogoFileID *uint
	Jobs       []Job `gorm:"foreignKey:EmployerProfileID"`
}

// SeekerProfile 表示求职者档案。
// 教育/培训/工作经历/作品集以 JSONB 形式整体存储，结构见 internal/talent。
type SeekerProfile struct {
	gorm.Model
	UserID          uint   `gorm:"uniqueIndex"`
	User            User   `gorm:"constraint:OnDelete:CASCADE"`
	FirstName       string `gorm:"size:80"`
	LastName        string `gorm:"size:80"`
	Profession      string `gorm:"size:120"`
	Headline        string `gorm:"size:200"`
	Bio             string `gorm:"type:text"`
	YearsExperience int
	Pathway         string `gorm:"size:16"`
	Availability    string `gorm:"size:60"`
	ResumeFileID    *uint
	Education       datatypes.JSON `gorm:"type:jsonb"`
	Training        datatypes.JSON `gorm:"type:jsonb"`
	Experience      datatypes.JSON `gorm:"type:jsonb"`
	Portfolio       datatypes.JSON `gorm:"type:jsonb"`
	Skills          []SeekerSkill  `gorm:"foreignKey:SeekerProfileID"`
}

// Skill 是全局技能字典项。
type Skill struct {
	gorm.Model
	Slug string `gorm:"uniqueIndex;size:80"`
	Name string `gorm:"size:120"`
}

// JobSkill 将技能挂到岗位上，required 标记必选/加分。
// (job_id, skill_id) 唯一，同一技能不会重复出现。
type JobSkill struct {
	ID       uint `gorm:"primaryKey"`
	JobID    uint `gorm:"uniqueIndex:idx_job_skill"`
	SkillID  uint `gorm:"uniqueIndex:idx_job_skill"`
	Skill    Skill
	Required bool `gorm:"default:true"`
}

// SeekerSkill 将技能挂到求职者档案上，带熟练度等级（1-5）。
type SeekerSkill struct {
	ID              uint `gorm:"primaryKey"`
	SeekerProfileID uint `gorm:"uniqueIndex:idx_seeker_skill"`
	SkillID         uint `gorm:"uniqueIndex:idx_seeker_skill"`
	Skill           Skill
	Level           int `gorm:"default:1"`
}

// Job 表示一条岗位发布。
// 四组类型相关字段互斥：规范化逻辑保证与 Type 不符的组全部为 NULL。
// 岗位从不物理删除，只在 OPEN/CLOSED 之间切换状态。
type Job struct {
	gorm.Model
	EmployerProfileID uint            `gorm:"index"`
	Employer          EmployerProfile `gorm:"foreignKey:EmployerProfileID"`
	Title             string          `gorm:"size:200"`
	Description       string          `gorm:"type:text"`
	Type              string          `gorm:"size:16;index"`
	Location          *string         `gorm:"size:120"`
	SalaryRange       *string         `gorm:"size:80"`
	Status            string          `gorm:"size:16;index;default:'OPEN'"`

	// GIG
	ProjectDuration *string `gorm:"size:80"`
	Budget          *string `gorm:"size:80"`
	Deadline        *time.Time
	Deliverables    *string `gorm:"type:text"`

	// INTERNSHIP
	InternshipDuration *string `gorm:"size:80"`
	Stipend            *string `gorm:"size:80"`
	StartDate          *time.Time
	LearningObjectives *string `gorm:"type:text"`

	// PART_TIME
	HoursPerWeek *string `gorm:"size:40"`
	Schedule     *string `gorm:"size:160"`
	HourlyRate   *string `gorm:"size:80"`

	// FULL_TIME
	WorkArrangement   *string `gorm:"size:60"`
	StartDateFullTime *time.Time
	ProbationPeriod   *string `gorm:"size:80"`
	Benefits          *string `gorm:"type:text"`

	Skills []JobSkill `gorm:"foreignKey:JobID"`
}

// Application 状态。
const (
	ApplicationSubmitted = "SUBMITTED"
	ApplicationReviewed  = "REVIEWED"
	ApplicationRejected  = "REJECTED"
	ApplicationAccepted  = "ACCEPTED"
)

// Application 表示一次投递。(job_id, seeker_profile_id) 唯一。
// 不变式：cv_file_id 与 cover_letter_file_id 至少其一非空（档案简历会在投递时快照为 CVFileID）。
type Application struct {
	gorm.Model
	JobID             uint          `gorm:"uniqueIndex:idx_job_applicant"`
	Job               Job           `gorm:"foreignKey:JobID"`
	SeekerProfileID   uint          `gorm:"uniqueIndex:idx_job_applicant"`
	Seeker            SeekerProfile `gorm:"foreignKey:SeekerProfileID"`
	CoverLetterText   string        `gorm:"type:text"`
	CoverLetterFileID *uint
	CVFileID          *uint
	ExpectedPay       string `gorm:"size:80"`
	Status            string `gorm:"size:16;default:'SUBMITTED'"`
}

// RecruitInvite 表示雇主主动邀请人才投递某岗位。
type RecruitInvite struct {
	gorm.Model
	EmployerProfileID uint            `gorm:"index"`
	Employer          EmployerProfile `gorm:"foreignKey:EmployerProfileID"`
	JobID             uint            `gorm:"index"`
	Job               Job             `gorm:"foreignKey:JobID"`
	SeekerProfileID   uint            `gorm:"index"`
	Seeker            SeekerProfile   `gorm:"foreignKey:SeekerProfileID"`
	Message           string          `gorm:"type:text"`
}

// File 记录对象存储中文件的元数据，真正的内容只存在 MinIO。
type File struct {
	gorm.Model
	UserID      uint   `gorm:"index"`
	ObjectKey   string `gorm:"uniqueIndex;size:255"`
	FileName    string `gorm:"size:255"`
	ContentType string `gorm:"size:120"`
	SizeBytes   int64
	Kind        string `gorm:"size:20;index"`
}

// Region 是定位用的行政区参考数据（塞拉利昂各区）。
type Region struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;size:80"`
}
