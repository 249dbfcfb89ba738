package placement

import (
	"testing"

	"realm/api/model"
)

func testZone() model.Zone {
	return model.Zone{
		ID:              "outer",
		BasePrice:       2000,
		PriceMultiplier: 0.4,
		MaxHuts:         30,
		CenterX:         500,
		CenterY:         500,
		Radius:          300,
	}
}

func hutAt(x, y, w, h int) model.Hut {
	return model.Hut{ID: "h", X: x, Y: y, Width: w, Height: h}
}

func TestQuoteCenterAndEdge(t *testing.T) {
	z := testZone()

	q := Quote(500, 500, &z, 0)
	if q.Cost != 800 {
		t.Fatalf("center cost = %d, want 800", q.Cost)
	}
	q = Quote(500, 800, &z, 0)
	if q.Cost != 80 {
		t.Fatalf("edge cost = %d, want 80", q.Cost)
	}
	q = Quote(500, 500, &z, 500)
	if q.Cost != 1300 {
		t.Fatalf("center cost with castle = %d, want 1300", q.Cost)
	}
}

func TestDistanceMultiplier(t *testing.T) {
	cases := []struct {
		d, r, want float64
	}{
		{0, 100, 1},
		{50, 100, 0.55},
		{100, 100, 0.1},
		{1000, 100, 0.1},
		{0, 0, 1},
		{5, 0, 0.1},
	}
	for _, c := range cases {
		got := DistanceMultiplier(c.d, c.r)
		if diff := got - c.want; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("DistanceMultiplier(%v, %v) = %v, want %v", c.d, c.r, got, c.want)
		}
	}
}

func TestZoneForListOrder(t *testing.T) {
	zones := []model.Zone{
		{ID: "center", CenterX: 500, CenterY: 500, Radius: 50},
		{ID: "inner", CenterX: 500, CenterY: 500, Radius: 100},
		{ID: "wild", CenterX: 500, CenterY: 500, Radius: 300},
	}
	if z := ZoneFor(500, 500, zones); z == nil || z.ID != "center" {
		t.Fatalf("center point resolved to %+v", z)
	}
	if z := ZoneFor(500, 580, zones); z == nil || z.ID != "inner" {
		t.Fatalf("(500,580) resolved to %+v", z)
	}
	if z := ZoneFor(500, 800, zones); z == nil || z.ID != "wild" {
		t.Fatalf("radius boundary should be inside, got %+v", z)
	}
	if z := ZoneFor(0, 0, zones); z != nil {
		t.Fatalf("(0,0) should be outside every zone, got %s", z.ID)
	}

	// 大圈排在前面时先命中大圈
	reversed := []model.Zone{zones[2], zones[1], zones[0]}
	if z := ZoneFor(500, 500, reversed); z == nil || z.ID != "wild" {
		t.Fatalf("list order not respected, got %+v", z)
	}

	z := ZoneFor(500, 500, zones)
	z.BasePrice = 1
	if zones[0].BasePrice != 0 {
		t.Fatal("ZoneFor must not alias the caller's slice")
	}
}

func TestCollides(t *testing.T) {
	size := model.Size{Width: 4, Height: 4}
	huts := []model.Hut{hutAt(50, 50, 4, 4)}

	if !Collides(52, 52, size, huts) {
		t.Fatal("(52,52) should overlap [50,54)x[50,54)")
	}
	if Collides(54, 54, size, huts) {
		t.Fatal("(54,54) only touches the corner")
	}
	if Collides(54, 50, size, huts) {
		t.Fatal("(54,50) only touches the edge")
	}
	if !Collides(50, 50, size, huts) {
		t.Fatal("self overlap must collide")
	}
	if Collides(52, 52, size, nil) {
		t.Fatal("no huts, no collision")
	}
}

func TestOverlapsSymmetric(t *testing.T) {
	rects := []Rect{
		{0, 0, 4, 4}, {2, 2, 4, 4}, {4, 4, 4, 4}, {4, 0, 1, 1},
		{-3, -3, 4, 4}, {1, 1, 1, 1}, {0, 3, 10, 2},
	}
	for _, a := range rects {
		if !a.Overlaps(a) {
			t.Fatalf("%v should overlap itself", a)
		}
		for _, b := range rects {
			if a.Overlaps(b) != b.Overlaps(a) {
				t.Fatalf("asymmetric overlap %v / %v", a, b)
			}
		}
	}
}

func TestRectTiles(t *testing.T) {
	pts := Rect{X: 10, Y: 20, W: 2, H: 3}.Tiles()
	if len(pts) != 6 {
		t.Fatalf("len = %d, want 6", len(pts))
	}
	if pts[0].X != 10 || pts[0].Y != 20 || pts[5].X != 11 || pts[5].Y != 22 {
		t.Fatalf("unexpected tiles %v", pts)
	}
	if (Rect{W: 0, H: 3}).Tiles() != nil {
		t.Fatal("empty rect should have no tiles")
	}
}

func TestCanBuild(t *testing.T) {
	zones := []model.Zone{testZone()}
	size := model.Size{Width: 4, Height: 4}
	huts := []model.Hut{hutAt(500, 500, 4, 4)}

	q := CanBuild(Candidate{X: 0, Y: 0, Size: size}, zones, nil, 1_000_000)
	if q.CanBuild || q.Reason != model.ReasonNoZone || q.Zone != nil {
		t.Fatalf("outside zones: %+v", q)
	}

	q = CanBuild(Candidate{X: 502, Y: 502, Size: size}, zones, huts, 1_000_000)
	if q.CanBuild || q.Reason != model.ReasonOccupied {
		t.Fatalf("collision must block: %+v", q)
	}

	// 金币不足且碰撞时，报告占用
	q = CanBuild(Candidate{X: 502, Y: 502, Size: size}, zones, huts, 0)
	if q.Reason != model.ReasonOccupied {
		t.Fatalf("occupied should win over funds, got %q", q.Reason)
	}

	c := Candidate{X: 500, Y: 520, Size: size, CastleBasePrice: 500}
	q = CanBuild(c, zones, huts, 100)
	if q.CanBuild || q.Reason != model.ReasonInsufficientFunds {
		t.Fatalf("funds: %+v", q)
	}

	q = CanBuild(c, zones, huts, q.Cost)
	if !q.CanBuild || q.Reason != "" || q.Zone == nil || q.Zone.ID != "outer" {
		t.Fatalf("exact funds should build: %+v", q)
	}
}

func TestPureFunctions(t *testing.T) {
	zones := []model.Zone{testZone()}
	huts := []model.Hut{hutAt(50, 50, 4, 4)}
	c := Candidate{X: 510, Y: 530, Size: model.Size{Width: 4, Height: 4}, CastleBasePrice: 1000}

	first := CanBuild(c, zones, huts, 5000)
	for i := 0; i < 5; i++ {
		q := CanBuild(c, zones, huts, 5000)
		if q.Cost != first.Cost || q.CanBuild != first.CanBuild || q.Reason != first.Reason {
			t.Fatalf("run %d differs: %+v vs %+v", i, q, first)
		}
	}
	if huts[0].X != 50 || zones[0].BasePrice != 2000 {
		t.Fatal("inputs were mutated")
	}
}
