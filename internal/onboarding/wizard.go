package onboarding

import (
	"context"
	"errors"
	"sync"
)

// 步骤固定标识，聚合提交数据按它分桶
const (
	StepBasicInfo = "basic-info"
	StepSkills    = "skills"
	StepLocation  = "location"
)

var (
	ErrNoSteps        = errors.New("wizard needs at least one step")
	ErrNoSubmitter    = errors.New("wizard needs a submitter")
	ErrStepLocked     = errors.New("step not reachable yet")
	ErrAtFirstStep    = errors.New("already at first step")
	ErrSubmitInFlight = errors.New("submission already in flight")
	ErrAlreadyDone    = errors.New("wizard already complete")
)

type Step struct {
	ID          string
	Title       string
	Description string
}

// DefaultSteps 标准三步 onboarding 流程
func DefaultSteps() []Step {
	return []Step{
		{ID: StepBasicInfo, Title: "Basic Info", Description: "Tell us about your business and experience"},
		{ID: StepSkills, Title: "Skills", Description: "Select the skills and services you offer"},
		{ID: StepLocation, Title: "Location", Description: "Set your service area and availability"},
	}
}

type BasicInfo struct {
	BusinessName      string `json:"businessName"`
	Tagline           string `json:"tagline"`
	Description       string `json:"description"`
	YearsOfExperience string `json:"yearsOfExperience,omitempty"`
	HourlyRate        string `json:"hourlyRate,omitempty"`
}

type Location struct {
	Address       string `json:"address,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
	Country       string `json:"country,omitempty"`
	ServiceRadius string `json:"serviceRadius"`
	ServiceType   string `json:"serviceType"`
}

type SkillChoice struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// ProfilePayload 最终提交给档案接口的合并体（基础信息 + 位置）
type ProfilePayload struct {
	BasicInfo
	Location
}

// Submitter 完成流程时依次调用的两个后端操作
type Submitter interface {
	SaveProfile(ctx context.Context, p ProfilePayload) error
	ReplaceSkills(ctx context.Context, skills []SkillChoice) error
}

// Config 显式传入向导的全部依赖，互不共享全局态，
// 多个向导实例可以并行跑也方便单测。
type Config struct {
	Steps     []Step
	Submitter Submitter
}

type Wizard struct {
	cfg Config

	mu         sync.Mutex
	current    int
	completed  map[int]bool
	data       map[string]any
	submitting bool
	done       bool
}

func New(cfg Config) (*Wizard, error) {
	if len(cfg.Steps) == 0 {
		return nil, ErrNoSteps
	}
	if cfg.Submitter == nil {
		return nil, ErrNoSubmitter
	}
	return &Wizard{
		cfg:       cfg,
		completed: make(map[int]bool),
		data:      make(map[string]any),
	}, nil
}

func (w *Wizard) StepIndex() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

func (w *Wizard) Current() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cfg.Steps[w.current]
}

func (w *Wizard) StepCompleted(i int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.completed[i]
}

func (w *Wizard) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

func (w *Wizard) Done() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.done
}

// Next 把当前步的数据并入聚合体并前进；最后一步触发提交。
// 不做跨步校验，空数据也允许前进。
func (w *Wizard) Next(ctx context.Context, data any) error {
	w.mu.Lock()
	if w.done {
		w.mu.Unlock()
		return ErrAlreadyDone
	}
	if w.submitting {
		w.mu.Unlock()
		return ErrSubmitInFlight
	}
	if data != nil {
		w.data[w.cfg.Steps[w.current].ID] = data
	}
	w.completed[w.current] = true

	if w.current < len(w.cfg.Steps)-1 {
		w.current++
		w.mu.Unlock()
		return nil
	}
	w.submitting = true
	w.mu.Unlock()

	err := w.submit(ctx)

	w.mu.Lock()
	w.submitting = false
	if err == nil {
		w.done = true
	}
	w.mu.Unlock()
	return err
}

func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == 0 {
		return ErrAtFirstStep
	}
	w.current--
	return nil
}

// GoTo 允许跳回任何已完成的步骤或更靠前的步骤
func (w *Wizard) GoTo(i int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i < 0 || i >= len(w.cfg.Steps) {
		return ErrStepLocked
	}
	if !w.completed[i] && i >= w.current {
		return ErrStepLocked
	}
	w.current = i
	return nil
}

// submit 先保存档案（基础信息 + 位置合并），成功且选了技能才提交技能。
// 任何一环失败向导停在最后一步可继续编辑重试。
func (w *Wizard) submit(ctx context.Context) error {
	w.mu.Lock()
	bi, _ := w.data[StepBasicInfo].(BasicInfo)
	loc, _ := w.data[StepLocation].(Location)
	skills, _ := w.data[StepSkills].([]SkillChoice)
	w.mu.Unlock()

	if err := w.cfg.Submitter.SaveProfile(ctx, ProfilePayload{BasicInfo: bi, Location: loc}); err != nil {
		return err
	}
	if len(skills) > 0 {
		if err := w.cfg.Submitter.ReplaceSkills(ctx, skills); err != nil {
			return err
		}
	}
	return nil
}
