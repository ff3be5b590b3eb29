package talent

// 求职者档案中以 JSONB 整体存储的集合结构。
// 字段名与前端序列化保持一致。

// Education 表示一段教育经历。
type Education struct {
	Institution string `json:"institution"`
	Credential  string `json:"credential"`
	Field       string `json:"field"`
	StartYear   int    `json:"startYear"`
	EndYear     int    `json:"endYear,omitempty"`
}

// Training 表示一段职业培训经历。
type Training struct {
	Provider    string `json:"provider"`
	Title       string `json:"title"`
	Certificate string `json:"certificate,omitempty"`
	Year        int    `json:"year"`
}

// Experience 表示一段工作经历。
type Experience struct {
	Employer    string `json:"employer"`
	Role        string `json:"role"`
	Description string `json:"description,omitempty"`
	StartYear   int    `json:"startYear"`
	EndYear     int    `json:"endYear,omitempty"`
	Current     bool   `json:"current,omitempty"`
}

// PortfolioItem 表示一件作品，链接与文件引用二选一。
type PortfolioItem struct {
	Title  string `json:"title"`
	Link   string `json:"link,omitempty"`
	FileID *uint  `json:"fileId,omitempty"`
}
