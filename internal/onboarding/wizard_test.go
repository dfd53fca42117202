package onboarding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSubmitter struct {
	profiles   []ProfilePayload
	skillCalls [][]SkillChoice

	profileErr error
	skillsErr  error
}

func (f *fakeSubmitter) SaveProfile(_ context.Context, p ProfilePayload) error {
	if f.profileErr != nil {
		return f.profileErr
	}
	f.profiles = append(f.profiles, p)
	return nil
}

func (f *fakeSubmitter) ReplaceSkills(_ context.Context, s []SkillChoice) error {
	if f.skillsErr != nil {
		return f.skillsErr
	}
	f.skillCalls = append(f.skillCalls, s)
	return nil
}

func newWizard(t *testing.T, sub Submitter) *Wizard {
	t.Helper()
	w, err := New(Config{Steps: DefaultSteps(), Submitter: sub})
	assert.NoError(t, err)
	return w
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{Submitter: &fakeSubmitter{}})
	assert.ErrorIs(t, err, ErrNoSteps)

	_, err = New(Config{Steps: DefaultSteps()})
	assert.ErrorIs(t, err, ErrNoSubmitter)
}

func TestHappyPathSubmitsMergedPayload(t *testing.T) {
	sub := &fakeSubmitter{}
	w := newWizard(t, sub)
	ctx := context.Background()

	assert.Equal(t, StepBasicInfo, w.Current().ID)
	assert.NoError(t, w.Next(ctx, BasicInfo{BusinessName: "Acme", YearsOfExperience: "5"}))

	assert.Equal(t, StepSkills, w.Current().ID)
	assert.NoError(t, w.Next(ctx, []SkillChoice{{Name: "Plumbing", Proficiency: "EXPERT"}}))

	assert.Equal(t, StepLocation, w.Current().ID)
	assert.NoError(t, w.Next(ctx, Location{City: "Austin", State: "TX", ServiceRadius: "unlimited", ServiceType: "both"}))

	assert.True(t, w.Done())
	if assert.Len(t, sub.profiles, 1) {
		p := sub.profiles[0]
		assert.Equal(t, "Acme", p.BusinessName)
		assert.Equal(t, "5", p.YearsOfExperience)
		assert.Equal(t, "Austin", p.City)
		assert.Equal(t, "unlimited", p.ServiceRadius)
	}
	if assert.Len(t, sub.skillCalls, 1) {
		assert.Len(t, sub.skillCalls[0], 1)
	}
}

func TestEmptySkillsSkipsSkillSubmission(t *testing.T) {
	sub := &fakeSubmitter{}
	w := newWizard(t, sub)
	ctx := context.Background()

	assert.NoError(t, w.Next(ctx, BasicInfo{BusinessName: "Acme"}))
	assert.NoError(t, w.Next(ctx, nil)) // 技能步留空
	assert.NoError(t, w.Next(ctx, Location{ServiceRadius: "10", ServiceType: "online"}))

	assert.True(t, w.Done())
	assert.Len(t, sub.profiles, 1)
	assert.Empty(t, sub.skillCalls)
}

func TestBackAndGoTo(t *testing.T) {
	sub := &fakeSubmitter{}
	w := newWizard(t, sub)
	ctx := context.Background()

	assert.ErrorIs(t, w.Back(), ErrAtFirstStep)

	// 前面没完成的步骤跳不过去
	assert.ErrorIs(t, w.GoTo(2), ErrStepLocked)
	assert.ErrorIs(t, w.GoTo(-1), ErrStepLocked)
	assert.ErrorIs(t, w.GoTo(3), ErrStepLocked)

	assert.NoError(t, w.Next(ctx, BasicInfo{BusinessName: "Acme"}))
	assert.NoError(t, w.Next(ctx, []SkillChoice{{Name: "Plumbing", Proficiency: "EXPERT"}}))
	assert.Equal(t, 2, w.StepIndex())

	// 回头改已完成的第一步
	assert.NoError(t, w.GoTo(0))
	assert.Equal(t, 0, w.StepIndex())
	assert.NoError(t, w.Next(ctx, BasicInfo{BusinessName: "Acme Co"}))

	// 已完成的技能步可以直接跳过去再前进
	assert.NoError(t, w.GoTo(1))
	assert.NoError(t, w.Next(ctx, nil)) // 保留之前选的技能
	assert.NoError(t, w.Next(ctx, Location{ServiceRadius: "10", ServiceType: "offline"}))

	assert.True(t, w.Done())
	if assert.Len(t, sub.profiles, 1) {
		assert.Equal(t, "Acme Co", sub.profiles[0].BusinessName)
	}
}

func TestFailedSubmitKeepsWizardEditable(t *testing.T) {
	boom := errors.New("backend down")
	sub := &fakeSubmitter{profileErr: boom}
	w := newWizard(t, sub)
	ctx := context.Background()

	assert.NoError(t, w.Next(ctx, BasicInfo{BusinessName: "Acme"}))
	assert.NoError(t, w.Next(ctx, nil))
	assert.ErrorIs(t, w.Next(ctx, Location{ServiceRadius: "10", ServiceType: "online"}), boom)

	// 失败后停在最后一步，可改数据重试
	assert.False(t, w.Done())
	assert.False(t, w.Submitting())
	assert.Equal(t, 2, w.StepIndex())

	sub.profileErr = nil
	assert.NoError(t, w.Next(ctx, Location{ServiceRadius: "25", ServiceType: "online"}))
	assert.True(t, w.Done())
	if assert.Len(t, sub.profiles, 1) {
		assert.Equal(t, "25", sub.profiles[0].ServiceRadius)
	}
}

func TestSkillFailureAfterProfileSave(t *testing.T) {
	boom := errors.New("skills endpoint down")
	sub := &fakeSubmitter{skillsErr: boom}
	w := newWizard(t, sub)
	ctx := context.Background()

	assert.NoError(t, w.Next(ctx, BasicInfo{BusinessName: "Acme"}))
	assert.NoError(t, w.Next(ctx, []SkillChoice{{Name: "Plumbing", Proficiency: "EXPERT"}}))
	assert.ErrorIs(t, w.Next(ctx, Location{ServiceRadius: "10", ServiceType: "online"}), boom)

	// 档案已保存但流程未完成，重试会再存一次（幂等 upsert 兜底）
	assert.False(t, w.Done())
	assert.Len(t, sub.profiles, 1)

	sub.skillsErr = nil
	assert.NoError(t, w.Next(ctx, nil))
	assert.True(t, w.Done())
	assert.Len(t, sub.profiles, 2)
	assert.Len(t, sub.skillCalls, 1)
}

func TestDoneWizardRejectsFurtherInput(t *testing.T) {
	sub := &fakeSubmitter{}
	w := newWizard(t, sub)
	ctx := context.Background()

	assert.NoError(t, w.Next(ctx, BasicInfo{}))
	assert.NoError(t, w.Next(ctx, nil))
	assert.NoError(t, w.Next(ctx, Location{ServiceRadius: "5", ServiceType: "online"}))
	assert.True(t, w.Done())

	assert.ErrorIs(t, w.Next(ctx, nil), ErrAlreadyDone)
}
