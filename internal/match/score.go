// Package match 计算求职者技能与岗位技能要求之间的匹配度，
// 用于 /api/jobs/recommended 的排序与展示。
package match

// JobSkill 是参与匹配的岗位技能要求。
type JobSkill struct {
	SkillID  uint
	Name     string
	Required bool
}

// Missing 描述求职者缺少的一项岗位技能。
type Missing struct {
	SkillID   uint   `json:"skillId"`
	Name      string `json:"name"`
	Mandatory bool   `json:"mandatory"`
}

// Result 是单个岗位的匹配结论。
type Result struct {
	Score               int       `json:"matchScore"`
	MatchingSkillsCount int       `json:"matchingSkillsCount"`
	MandatoryMissing    bool      `json:"mandatoryMissing"`
	MissingSkills       []Missing `json:"missingSkills"`
}

// 必选技能在得分中的权重是加分技能的两倍。
const (
	requiredWeight = 2
	optionalWeight = 1
)

// Score 对照求职者已有技能集合（skillID → 熟练度）给岗位打分。
// 得分范围 0-100；岗位未声明任何技能时得 0 分，不参与推荐排序的头部。
func Score(jobSkills []JobSkill, seekerSkills map[uint]int) Result {
	res := Result{MissingSkills: []Missing{}}
	if len(jobSkills) == 0 {
		return res
	}

	var have, total int
	for _, js := range jobSkills {
		weight := optionalWeight
		if js.Required {
			weight = requiredWeight
		}
		total += weight

		if _, ok := seekerSkills[js.SkillID]; ok {
			have += weight
			res.MatchingSkillsCount++
			continue
		}

		if js.Required {
			res.MandatoryMissing = true
		}
		res.MissingSkills = append(res.MissingSkills, Missing{
			SkillID:   js.SkillID,
			Name:      js.Name,
			Mandatory: js.Required,
		})
	}

	// 四舍五入到整数百分比。
	res.Score = (have*100 + total/2) / total
	return res
}
