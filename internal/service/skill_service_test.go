package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sandeepramdas/tether/internal/domain"
	"github.com/sandeepramdas/tether/internal/repo"
	"github.com/sandeepramdas/tether/internal/service"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Plumbing":            "plumbing",
		"Home  Cleaning":      "home-cleaning",
		"  Dog Walking  ":     "dog-walking",
		"Web\tDesign":         "web-design",
		"Already-hyphenated":  "already-hyphenated",
		"Mixed Case Services": "mixed-case-services",
	}
	for in, want := range cases {
		assert.Equal(t, want, service.Slugify(in), "input %q", in)
	}
}

func TestNormalizeProficiency(t *testing.T) {
	got, err := service.NormalizeProficiency("expert")
	assert.NoError(t, err)
	assert.Equal(t, domain.ProficiencyExpert, got)

	got, err = service.NormalizeProficiency("  Beginner ")
	assert.NoError(t, err)
	assert.Equal(t, domain.ProficiencyBeginner, got)

	_, err = service.NormalizeProficiency("guru")
	assert.Error(t, err)
	_, err = service.NormalizeProficiency("")
	assert.Error(t, err)
}

func TestResolveOrCreate(t *testing.T) {
	db := setupTestDB(t)
	svc := newSkillService(db)

	first, err := svc.ResolveOrCreate("Lawn Care")
	assert.NoError(t, err)
	assert.Equal(t, "Lawn Care", first.Name)
	assert.Equal(t, "lawn-care", first.Slug)
	assert.Equal(t, domain.SkillLevelCategory, first.Level)
	assert.True(t, first.IsActive)

	// 同名第二次解析复用同一条目
	second, err := svc.ResolveOrCreate("Lawn Care")
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&domain.Skill{}).Count(&count)
	assert.Equal(t, int64(1), count)

	_, err = svc.ResolveOrCreate("   ")
	assert.ErrorIs(t, err, service.ErrEmptySkillName)
}

func TestResolveOrCreateDupSlugFallsBack(t *testing.T) {
	db := setupTestDB(t)
	svc := newSkillService(db)

	seeded, err := svc.ResolveOrCreate("Deep Cleaning")
	assert.NoError(t, err)

	// 名字不同但 slug 撞车：唯一索引冲突后按 slug 重查
	got, err := svc.ResolveOrCreate("Deep  Cleaning")
	assert.NoError(t, err)
	assert.Equal(t, seeded.ID, got.ID)
}

func TestListActiveExcludesInactive(t *testing.T) {
	db := setupTestDB(t)
	svc := newSkillService(db)

	for _, name := range []string{"Tutoring", "Moving", "Painting"} {
		_, err := svc.ResolveOrCreate(name)
		assert.NoError(t, err)
	}
	assert.NoError(t, db.Model(&domain.Skill{}).
		Where("slug = ?", "moving").Update("is_active", false).Error)

	got, err := svc.ListActive()
	assert.NoError(t, err)
	if assert.Len(t, got, 2) {
		// 按名字升序
		assert.Equal(t, "Painting", got[0].Name)
		assert.Equal(t, "Tutoring", got[1].Name)
	}
}

func TestReplaceSkillsRequiresProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := newSkillService(db)

	_, err := svc.ReplaceSkills("no-such-profile", []service.SkillSelection{
		{Name: "Plumbing", Proficiency: "expert"},
	})
	assert.ErrorIs(t, err, service.ErrProfileNotFound)

	// 未落任何目录条目
	var count int64
	db.Model(&domain.Skill{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestReplaceSkillsCreatesAndReplaces(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "skills@example.com")
	p := seedProfile(t, db, u.ID)
	svc := newSkillService(db)

	rows, err := svc.ReplaceSkills(p.ID, []service.SkillSelection{
		{Name: "Plumbing", Proficiency: "expert"},
		{Name: "Electrical", Proficiency: "intermediate"},
	})
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, p.ID, r.ProviderID)
		assert.True(t, r.IsActive)
		assert.False(t, r.IsPrimary)
	}

	// 整体替换：Plumbing 留下（熟练度刷新），Electrical 删除，Carpentry 新增
	rows, err = svc.ReplaceSkills(p.ID, []service.SkillSelection{
		{Name: "Plumbing", Proficiency: "master"},
		{Name: "Carpentry", Proficiency: "beginner"},
	})
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	stored, err := repo.NewSkillRepo(db).ListProviderSkills(p.ID)
	assert.NoError(t, err)
	assert.Len(t, stored, 2)

	byName := map[string]domain.ProviderSkill{}
	for _, r := range stored {
		byName[r.Skill.Name] = r
	}
	assert.Equal(t, domain.ProficiencyMaster, byName["Plumbing"].Proficiency)
	assert.Equal(t, domain.ProficiencyBeginner, byName["Carpentry"].Proficiency)
	_, gone := byName["Electrical"]
	assert.False(t, gone)
}

func TestReplaceSkillsPreservesRowIdentity(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "keep@example.com")
	p := seedProfile(t, db, u.ID)
	svc := newSkillService(db)

	first, err := svc.ReplaceSkills(p.ID, []service.SkillSelection{
		{Name: "Plumbing", Proficiency: "expert"},
	})
	assert.NoError(t, err)

	// 标记主技能后重新提交：行被复用，is_primary 不丢
	assert.NoError(t, db.Model(&domain.ProviderSkill{}).
		Where("id = ?", first[0].ID).Update("is_primary", true).Error)

	second, err := svc.ReplaceSkills(p.ID, []service.SkillSelection{
		{Name: "Plumbing", Proficiency: "master"},
	})
	assert.NoError(t, err)
	if assert.Len(t, second, 1) {
		assert.Equal(t, first[0].ID, second[0].ID)
		assert.True(t, second[0].IsPrimary)
		assert.Equal(t, domain.ProficiencyMaster, second[0].Proficiency)
	}
}

func TestReplaceSkillsReclaimsInactiveRow(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "revive@example.com")
	p := seedProfile(t, db, u.ID)
	svc := newSkillService(db)

	first, err := svc.ReplaceSkills(p.ID, []service.SkillSelection{
		{Name: "Plumbing", Proficiency: "expert"},
	})
	assert.NoError(t, err)
	assert.NoError(t, db.Model(&domain.ProviderSkill{}).
		Where("id = ?", first[0].ID).Update("is_active", false).Error)

	second, err := svc.ReplaceSkills(p.ID, []service.SkillSelection{
		{Name: "Plumbing", Proficiency: "expert"},
	})
	assert.NoError(t, err)
	if assert.Len(t, second, 1) {
		assert.Equal(t, first[0].ID, second[0].ID)
		assert.True(t, second[0].IsActive)
	}
}

func TestReplaceSkillsDuplicateSelection(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "dup@example.com")
	p := seedProfile(t, db, u.ID)
	svc := newSkillService(db)

	// 同一技能提交两次：两行关联，不去重，结果行数等于入参行数
	rows, err := svc.ReplaceSkills(p.ID, []service.SkillSelection{
		{Name: "Plumbing", Proficiency: "expert"},
		{Name: "Plumbing", Proficiency: "beginner"},
	})
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.NotEqual(t, rows[0].ID, rows[1].ID)
	assert.Equal(t, rows[0].SkillID, rows[1].SkillID)

	// 但目录里只有一条 Plumbing
	var count int64
	db.Model(&domain.Skill{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestReplaceSkillsRejectsBadProficiency(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "bad@example.com")
	p := seedProfile(t, db, u.ID)
	svc := newSkillService(db)

	_, err := svc.ReplaceSkills(p.ID, []service.SkillSelection{
		{Name: "Plumbing", Proficiency: "wizard"},
	})
	assert.Error(t, err)

	stored, err := repo.NewSkillRepo(db).ListProviderSkills(p.ID)
	assert.NoError(t, err)
	assert.Empty(t, stored)
}
