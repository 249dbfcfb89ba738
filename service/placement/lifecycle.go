package placement

import (
	"context"
	"errors"
	"fmt"

	"realm/api/model"
)

type State int

const (
	Browsing State = iota
	Confirmed
	Persisted
	Rejected
)

func (s State) String() string {
	switch s {
	case Browsing:
		return "browsing"
	case Confirmed:
		return "confirmed"
	case Persisted:
		return "persisted"
	case Rejected:
		return "rejected"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var ErrIllegalTransition = errors.New("illegal placement transition")

// Committer 权威提交方：服务端在事务内重新校验并落库
type Committer interface {
	Commit(ctx context.Context, c Candidate) (*model.Hut, error)
}

type CommitFunc func(ctx context.Context, c Candidate) (*model.Hut, error)

func (f CommitFunc) Commit(ctx context.Context, c Candidate) (*model.Hut, error) {
	return f(ctx, c)
}

// Placement 单次建造流程：Browsing -> Confirmed -> Persisted | Rejected
type Placement struct {
	state     State
	candidate Candidate
	quote     model.ConstructionQuote
	hut       *model.Hut
	err       error
}

func NewPlacement() *Placement {
	return &Placement{state: Browsing}
}

func (p *Placement) State() State                   { return p.state }
func (p *Placement) Quote() model.ConstructionQuote { return p.quote }
func (p *Placement) Hut() *model.Hut                { return p.hut }
func (p *Placement) Err() error                     { return p.err }

// Hover 只在 Browsing 阶段刷新报价
func (p *Placement) Hover(c Candidate, zones []model.Zone, huts []model.Hut, gold int64) (model.ConstructionQuote, error) {
	if p.state != Browsing {
		return model.ConstructionQuote{}, fmt.Errorf("%w: hover in %s", ErrIllegalTransition, p.state)
	}
	p.candidate = c
	p.quote = CanBuild(c, zones, huts, gold)
	return p.quote, nil
}

// Confirm 当前报价可建造时进入 Confirmed
func (p *Placement) Confirm() error {
	if p.state != Browsing {
		return fmt.Errorf("%w: confirm in %s", ErrIllegalTransition, p.state)
	}
	if !p.quote.CanBuild {
		return fmt.Errorf("%w: quote not buildable (%s)", ErrIllegalTransition, p.quote.Reason)
	}
	p.state = Confirmed
	return nil
}

// Cancel 放弃确认，回到 Browsing
func (p *Placement) Cancel() error {
	if p.state != Confirmed {
		return fmt.Errorf("%w: cancel in %s", ErrIllegalTransition, p.state)
	}
	p.state = Browsing
	return nil
}

// Commit 提交到权威方。被拒绝或冲突进入 Rejected；其它错误（网络、数据库）保持 Confirmed 可重试
func (p *Placement) Commit(ctx context.Context, committer Committer) error {
	if p.state != Confirmed {
		return fmt.Errorf("%w: commit in %s", ErrIllegalTransition, p.state)
	}
	hut, err := committer.Commit(ctx, p.candidate)
	if err == nil {
		p.hut = hut
		p.state = Persisted
		return nil
	}

	var rej *RejectedError
	if errors.Is(err, ErrPersistenceConflict) || errors.As(err, &rej) {
		p.err = err
		p.state = Rejected
	}
	return err
}
