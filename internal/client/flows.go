package client

import (
	"context"
	"errors"
	"sync"
	"time"
)

// FlowState 是提交流程（投递、邀请）状态机的阶段。
type FlowState int

const (
	FlowClosed FlowState = iota
	FlowLoadingPrereqs
	FlowReady
	FlowSubmitting
	FlowSucceeded
)

// DefaultSuccessFeedbackDelay 是提交成功后停留在成功反馈上的时长，
// 到期后流程自动关闭。投递与邀请共用同一个节奏。
const DefaultSuccessFeedbackDelay = 1500 * time.Millisecond

var (
	// ErrFlowNotReady 表示当前阶段不允许提交。
	ErrFlowNotReady = errors.New("flow is not ready to submit")
	// ErrFlowAlreadyOpen 表示流程已在进行中。
	ErrFlowAlreadyOpen = errors.New("flow is already open")
)

// SubmitFlow 驱动 closed → loadingPrereqs → ready → submitting →
// (succeeded | 回到 ready) 的状态机。打开期间持有 guard，关闭时释放。
type SubmitFlow struct {
	loadPrereqs  func(ctx context.Context) error
	submit       func(ctx context.Context) error
	guard        *Guard
	successDelay time.Duration

	mu           sync.Mutex
	state        FlowState
	lastErr      error
	releaseGuard func()
	closeTimer   *time.Timer
}

// NewSubmitFlow 构造流程。loadPrereqs 可为 nil（无前置数据时直接就绪）。
// guard 可为 nil。successDelay 为零时取 DefaultSuccessFeedbackDelay。
func NewSubmitFlow(loadPrereqs, submit func(ctx context.Context) error, guard *Guard, successDelay time.Duration) *SubmitFlow {
	if successDelay <= 0 {
		successDelay = DefaultSuccessFeedbackDelay
	}
	return &SubmitFlow{
		loadPrereqs:  loadPrereqs,
		submit:       submit,
		guard:        guard,
		successDelay: successDelay,
	}
}

// Open 启动流程：占用守卫、加载前置数据并进入就绪态。
// 前置加载失败时流程回到关闭态并返回错误。
func (f *SubmitFlow) Open(ctx context.Context) error {
	f.mu.Lock()
	if f.state != FlowClosed {
		f.mu.Unlock()
		return ErrFlowAlreadyOpen
	}
	f.state = FlowLoadingPrereqs
	f.lastErr = nil
	if f.guard != nil {
		f.releaseGuard = f.guard.Acquire()
	}
	f.mu.Unlock()

	if f.loadPrereqs != nil {
		if err := f.loadPrereqs(ctx); err != nil {
			f.Close()
			return err
		}
	}

	f.mu.Lock()
	if f.state == FlowLoadingPrereqs {
		f.state = FlowReady
	}
	f.mu.Unlock()
	return nil
}

// Submit 执行提交。只有就绪态接受提交；失败回到就绪态并记录错误，
// 成功进入成功态并在反馈时长后自动关闭。
func (f *SubmitFlow) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state != FlowReady {
		f.mu.Unlock()
		return ErrFlowNotReady
	}
	f.state = FlowSubmitting
	f.lastErr = nil
	f.mu.Unlock()

	err := f.submit(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != FlowSubmitting {
		// 提交期间被关闭，结果作废。
		return err
	}
	if err != nil {
		f.state = FlowReady
		f.lastErr = err
		return err
	}
	f.state = FlowSucceeded
	f.closeTimer = time.AfterFunc(f.successDelay, f.Close)
	return nil
}

// Close 关闭流程并释放守卫。任何阶段都可以关闭。
func (f *SubmitFlow) Close() {
	f.mu.Lock()
	release := f.releaseGuard
	f.releaseGuard = nil
	if f.closeTimer != nil {
		f.closeTimer.Stop()
		f.closeTimer = nil
	}
	f.state = FlowClosed
	f.lastErr = nil
	f.mu.Unlock()

	if release != nil {
		release()
	}
}

// State 返回当前阶段。
func (f *SubmitFlow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Err 返回最近一次提交失败的错误。
func (f *SubmitFlow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// ApplyFlow 是求职者投递岗位的流程：打开时加载岗位详情，提交时投递。
type ApplyFlow struct {
	*SubmitFlow

	mu      sync.Mutex
	job     *Job
	request ApplicationRequest
	appID   uint
}

// NewApplyFlow 为指定岗位构造投递流程。
func NewApplyFlow(c *Client, jobID uint, guard *Guard, successDelay time.Duration) *ApplyFlow {
	f := &ApplyFlow{}
	f.SubmitFlow = NewSubmitFlow(
		func(ctx context.Context) error {
			job, err := c.GetJob(ctx, jobID)
			if err != nil {
				return err
			}
			f.mu.Lock()
			f.job = job
			f.request.JobID = jobID
			f.mu.Unlock()
			return nil
		},
		func(ctx context.Context) error {
			f.mu.Lock()
			req := f.request
			f.mu.Unlock()
			id, err := c.Apply(ctx, req)
			if err != nil {
				return err
			}
			f.mu.Lock()
			f.appID = id
			f.mu.Unlock()
			return nil
		},
		guard,
		successDelay,
	)
	return f
}

// SetDetails 填写投递内容，在 Submit 之前调用。
func (f *ApplyFlow) SetDetails(coverLetterText string, coverLetterFileID *uint, expectedPay string) {
	f.mu.Lock()
	f.request.CoverLetterText = coverLetterText
	f.request.CoverLetterFileID = coverLetterFileID
	f.request.ExpectedPay = expectedPay
	f.mu.Unlock()
}

// Job 返回打开时加载到的岗位详情。
func (f *ApplyFlow) Job() *Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.job
}

// ApplicationID 返回提交成功后的投递 ID。
func (f *ApplyFlow) ApplicationID() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.appID
}

// RecruitFlow 是雇主邀请人才的流程：打开时加载人才详情，提交时发出邀请。
type RecruitFlow struct {
	*SubmitFlow

	mu        sync.Mutex
	talent    *Freelancer
	request   RecruitRequest
	hasResume bool
}

// NewRecruitFlow 为指定人才构造邀请流程。
func NewRecruitFlow(c *Client, talentID uint, guard *Guard, successDelay time.Duration) *RecruitFlow {
	f := &RecruitFlow{}
	f.SubmitFlow = NewSubmitFlow(
		func(ctx context.Context) error {
			talent, err := c.GetTalent(ctx, talentID)
			if err != nil {
				return err
			}
			f.mu.Lock()
			f.talent = talent
			f.request.TalentID = talentID
			f.mu.Unlock()
			return nil
		},
		func(ctx context.Context) error {
			f.mu.Lock()
			req := f.request
			f.mu.Unlock()
			if req.JobID == 0 {
				return ErrFlowNotReady
			}
			hasResume, err := c.Recruit(ctx, req)
			if err != nil {
				return err
			}
			f.mu.Lock()
			f.hasResume = hasResume
			f.mu.Unlock()
			return nil
		},
		guard,
		successDelay,
	)
	return f
}

// SetJob 选择用于邀请的岗位，在 Submit 之前调用。
func (f *RecruitFlow) SetJob(jobID uint, message string) {
	f.mu.Lock()
	f.request.JobID = jobID
	f.request.Message = message
	f.mu.Unlock()
}

// Talent 返回打开时加载到的人才详情。
func (f *RecruitFlow) Talent() *Freelancer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.talent
}

// HasResume 返回邀请响应中对方是否已有简历。
func (f *RecruitFlow) HasResume() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasResume
}
