package match

import "testing"

func TestScore_EmptyRequirements(t *testing.T) {
	res := Score(nil, map[uint]int{1: 3})
	if res.Score != 0 || res.MatchingSkillsCount != 0 || res.MandatoryMissing {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestScore_FullMatch(t *testing.T) {
	jobSkills := []JobSkill{
		{SkillID: 1, Name: "Excel", Required: true},
		{SkillID: 2, Name: "Data Entry", Required: false},
	}
	res := Score(jobSkills, map[uint]int{1: 4, 2: 2})
	if res.Score != 100 {
		t.Fatalf("expected 100, got %d", res.Score)
	}
	if res.MatchingSkillsCount != 2 || len(res.MissingSkills) != 0 || res.MandatoryMissing {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestScore_RequiredWeighsDouble(t *testing.T) {
	jobSkills := []JobSkill{
		{SkillID: 1, Name: "Excel", Required: true},
		{SkillID: 2, Name: "Data Entry", Required: false},
	}

	// 只会必选技能：2/3 ≈ 67。
	res := Score(jobSkills, map[uint]int{1: 3})
	if res.Score != 67 {
		t.Fatalf("required-only: expected 67, got %d", res.Score)
	}
	if res.MandatoryMissing {
		t.Fatal("required skill is present")
	}

	// 只会加分技能：1/3 ≈ 33，且必选缺失。
	res = Score(jobSkills, map[uint]int{2: 3})
	if res.Score != 33 {
		t.Fatalf("optional-only: expected 33, got %d", res.Score)
	}
	if !res.MandatoryMissing {
		t.Fatal("expected mandatory missing")
	}
	if len(res.MissingSkills) != 1 || res.MissingSkills[0].SkillID != 1 || !res.MissingSkills[0].Mandatory {
		t.Fatalf("unexpected missing skills: %+v", res.MissingSkills)
	}
}

func TestScore_NoOverlap(t *testing.T) {
	jobSkills := []JobSkill{
		{SkillID: 1, Name: "Plumbing", Required: true},
		{SkillID: 2, Name: "Solar Installation", Required: true},
	}
	res := Score(jobSkills, map[uint]int{9: 5})
	if res.Score != 0 || res.MatchingSkillsCount != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(res.MissingSkills) != 2 {
		t.Fatalf("expected 2 missing, got %+v", res.MissingSkills)
	}
}
