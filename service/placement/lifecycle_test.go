package placement

import (
	"context"
	"errors"
	"testing"
	"time"

	"realm/api/model"
)

// memTx 内存版事务，模拟唯一键
type memTx struct {
	gold  map[int64]int64
	huts  []model.Hut
	tiles map[[2]int]string
}

func newMemTx() *memTx {
	return &memTx{gold: map[int64]int64{}, tiles: map[[2]int]string{}}
}

func (m *memTx) LockGold(_ context.Context, owner int64) (int64, error) {
	g, ok := m.gold[owner]
	if !ok {
		return 0, errors.New("no character")
	}
	return g, nil
}

func (m *memTx) Overlapping(_ context.Context, _ string, r Rect) ([]model.Hut, error) {
	var out []model.Hut
	for i := range m.huts {
		if r.Overlaps(HutRect(&m.huts[i])) {
			out = append(out, m.huts[i])
		}
	}
	return out, nil
}

func (m *memTx) CountInZone(_ context.Context, _ string, zoneID string) (int64, error) {
	var n int64
	for _, h := range m.huts {
		if h.ZoneID == zoneID {
			n++
		}
	}
	return n, nil
}

func (m *memTx) DebitGold(_ context.Context, owner int64, amount int64) error {
	if m.gold[owner] < amount {
		return errors.New("insufficient")
	}
	m.gold[owner] -= amount
	return nil
}

func (m *memTx) InsertHut(_ context.Context, hut *model.Hut, tiles []model.HutTile) error {
	for _, t := range tiles {
		if _, ok := m.tiles[[2]int{t.TX, t.TY}]; ok {
			return ErrPersistenceConflict
		}
	}
	for _, t := range tiles {
		m.tiles[[2]int{t.TX, t.TY}] = hut.ID
	}
	m.huts = append(m.huts, *hut)
	return nil
}

type txCommitter struct {
	tx    *memTx
	zones []model.Zone
	owner int64
	next  int
}

func (c *txCommitter) Commit(ctx context.Context, cand Candidate) (*model.Hut, error) {
	c.next++
	o := Order{Candidate: cand, MapID: "m", OwnerID: c.owner, MaxStorage: 1000}
	hut, _, err := Settle(ctx, c.tx, c.zones, o, "hut_"+string(rune('a'+c.next)), time.Now())
	return hut, err
}

type failingCommitter struct{ err error }

func (f failingCommitter) Commit(context.Context, Candidate) (*model.Hut, error) {
	return nil, f.err
}

func TestPlacementHappyPath(t *testing.T) {
	tx := newMemTx()
	tx.gold[7] = 2000
	zones := []model.Zone{testZone()}
	cand := Candidate{X: 500, Y: 500, Size: model.Size{Width: 4, Height: 4}}

	p := NewPlacement()
	q, err := p.Hover(cand, zones, tx.huts, tx.gold[7])
	if err != nil || !q.CanBuild || q.Cost != 800 {
		t.Fatalf("hover: %+v %v", q, err)
	}
	if err := p.Confirm(); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := p.Hover(cand, zones, nil, 0); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("hover after confirm should fail, got %v", err)
	}
	if err := p.Commit(context.Background(), &txCommitter{tx: tx, zones: zones, owner: 7}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if p.State() != Persisted || p.Hut() == nil || p.Hut().Cost != 800 {
		t.Fatalf("state %s hut %+v", p.State(), p.Hut())
	}
	if tx.gold[7] != 1200 {
		t.Fatalf("gold = %d, want 1200", tx.gold[7])
	}
	if len(tx.tiles) != 16 {
		t.Fatalf("tiles = %d, want 16", len(tx.tiles))
	}
	if err := p.Commit(context.Background(), &txCommitter{tx: tx, zones: zones, owner: 7}); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("double commit should fail, got %v", err)
	}
}

func TestPlacementConfirmRequiresBuildable(t *testing.T) {
	p := NewPlacement()
	if err := p.Confirm(); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("confirm without quote: %v", err)
	}
	_, _ = p.Hover(Candidate{X: 0, Y: 0, Size: model.Size{Width: 4, Height: 4}}, []model.Zone{testZone()}, nil, 1e6)
	if err := p.Confirm(); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("confirm outside zone: %v", err)
	}
	if p.State() != Browsing {
		t.Fatalf("state = %s", p.State())
	}
}

func TestPlacementLateConflict(t *testing.T) {
	tx := newMemTx()
	tx.gold[1] = 5000
	tx.gold[2] = 5000
	zones := []model.Zone{testZone()}
	size := model.Size{Width: 4, Height: 4}

	// 两个玩家都看到空地并确认
	a, b := NewPlacement(), NewPlacement()
	_, _ = a.Hover(Candidate{X: 500, Y: 500, Size: size}, zones, nil, 5000)
	_, _ = b.Hover(Candidate{X: 502, Y: 502, Size: size}, zones, nil, 5000)
	if a.Confirm() != nil || b.Confirm() != nil {
		t.Fatal("both confirms should pass on an empty snapshot")
	}

	if err := a.Commit(context.Background(), &txCommitter{tx: tx, zones: zones, owner: 1}); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	err := b.Commit(context.Background(), &txCommitter{tx: tx, zones: zones, owner: 2})
	if !errors.Is(err, ErrPersistenceConflict) {
		t.Fatalf("second commit err = %v, want conflict", err)
	}
	if b.State() != Rejected || tx.gold[2] != 5000 {
		t.Fatalf("state %s gold %d", b.State(), tx.gold[2])
	}
}

func TestPlacementTransientErrorKeepsConfirmed(t *testing.T) {
	p := NewPlacement()
	_, _ = p.Hover(Candidate{X: 500, Y: 500, Size: model.Size{Width: 1, Height: 1}}, []model.Zone{testZone()}, nil, 1e6)
	_ = p.Confirm()

	if err := p.Commit(context.Background(), failingCommitter{err: errors.New("db down")}); err == nil {
		t.Fatal("expected error")
	}
	if p.State() != Confirmed {
		t.Fatalf("state = %s, want confirmed", p.State())
	}
	if err := p.Cancel(); err != nil || p.State() != Browsing {
		t.Fatalf("cancel: %v %s", err, p.State())
	}

	_ = p.Confirm()
	rej := &RejectedError{Quote: model.ConstructionQuote{Reason: model.ReasonInsufficientFunds}}
	err := p.Commit(context.Background(), failingCommitter{err: rej})
	var got *RejectedError
	if !errors.As(err, &got) || p.State() != Rejected || p.Err() == nil {
		t.Fatalf("rejected: %v %s", err, p.State())
	}
}

func TestSettleRevalidates(t *testing.T) {
	ctx := context.Background()
	zones := []model.Zone{testZone()}
	size := model.Size{Width: 4, Height: 4}
	now := time.Unix(1700000000, 0)

	tx := newMemTx()
	tx.gold[1] = 100
	_, q, err := Settle(ctx, tx, zones, Order{Candidate: Candidate{X: 500, Y: 500, Size: size}, OwnerID: 1}, "x", now)
	var rej *RejectedError
	if !errors.As(err, &rej) || q.Reason != model.ReasonInsufficientFunds {
		t.Fatalf("funds: %v %+v", err, q)
	}
	if tx.gold[1] != 100 || len(tx.huts) != 0 {
		t.Fatal("rejected settle must not write")
	}

	tx.gold[1] = 10_000
	_, q, err = Settle(ctx, tx, zones, Order{Candidate: Candidate{X: 10, Y: 10, Size: size}, OwnerID: 1}, "x", now)
	if !errors.As(err, &rej) || q.Reason != model.ReasonNoZone {
		t.Fatalf("no zone: %v %+v", err, q)
	}

	full := testZone()
	full.MaxHuts = 1
	tx.huts = append(tx.huts, model.Hut{ID: "old", ZoneID: full.ID, X: 700, Y: 500, Width: 4, Height: 4})
	_, q, err = Settle(ctx, tx, []model.Zone{full}, Order{Candidate: Candidate{X: 500, Y: 500, Size: size}, OwnerID: 1}, "x", now)
	if !errors.As(err, &rej) || q.Reason != model.ReasonZoneFull {
		t.Fatalf("zone full: %v %+v", err, q)
	}

	hut, q, err := Settle(ctx, tx, zones, Order{
		Candidate:    Candidate{X: 500, Y: 500, Size: size, CastleBasePrice: 500},
		MapID:        "m",
		OwnerID:      1,
		Name:         "Stone Castle",
		CastleTypeID: "stone",
		MaxStorage:   1000,
	}, "hut_1", now)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if hut.Cost != 1300 || q.Cost != 1300 || hut.ZoneID != "outer" || hut.Level != 1 || hut.Resources.MaxStorage != 1000 {
		t.Fatalf("hut %+v", hut)
	}
	if !hut.LastVisited.Equal(now) || tx.gold[1] != 8700 {
		t.Fatalf("visited %v gold %d", hut.LastVisited, tx.gold[1])
	}
}

func TestFootprintTiles(t *testing.T) {
	tiles := FootprintTiles("m", "h1", Rect{X: 3, Y: 4, W: 2, H: 2})
	if len(tiles) != 4 {
		t.Fatalf("len = %d", len(tiles))
	}
	for _, tl := range tiles {
		if tl.MapID != "m" || tl.HutID != "h1" || tl.TX < 3 || tl.TX > 4 || tl.TY < 4 || tl.TY > 5 {
			t.Fatalf("bad tile %+v", tl)
		}
	}
}
