package marks

import (
	"testing"

	"github.com/cwbudde/algo-wavecal/calib"
)

func requireCounts(t *testing.T, s *Store, pix, wav int) {
	t.Helper()
	p, w := s.Counts()
	if p != pix || w != wav {
		t.Fatalf("counts = (%d, %d), want (%d, %d)", p, w, pix, wav)
	}
}

func TestAddSingleSidedCompletesPair(t *testing.T) {
	s := New()
	s.Add(calib.SidePixel, 100)
	if s.Balanced() || len(s.Pairs()) != 0 {
		t.Fatal("half pair reported as complete")
	}
	s.Add(calib.SideWavelength, 4000)
	pairs := s.Pairs()
	if len(pairs) != 1 || pairs[0].Pixel != 100 || pairs[0].Wavelength != 4000 {
		t.Fatalf("pairs = %+v", pairs)
	}
}

func TestRemoveNearestPair(t *testing.T) {
	s := New()
	s.AddManual(100, 4000)
	s.AddManual(200, 4200)
	s.AddManual(300, 4400)

	if !s.RemoveNearest(calib.SideWavelength, 4190) {
		t.Fatal("nothing removed")
	}
	requireCounts(t, s, 2, 2)
	for _, p := range s.Pairs() {
		if p.Pixel == 200 || p.Wavelength == 4200 {
			t.Fatalf("pair (200, 4200) still present: %+v", s.Pairs())
		}
	}
}

func TestRemoveNearestDanglingOnly(t *testing.T) {
	s := New()
	s.AddManual(100, 4000)
	s.AddManual(200, 4200)
	s.Add(calib.SidePixel, 250)
	requireCounts(t, s, 3, 2)

	s.RemoveNearest(calib.SidePixel, 260)
	requireCounts(t, s, 2, 2)
	if len(s.Pairs()) != 2 {
		t.Fatalf("complete pairs disturbed: %+v", s.Pairs())
	}
}

func TestRemoveNearestPairWhileUnbalanced(t *testing.T) {
	s := New()
	s.AddManual(100, 4000)
	s.AddManual(200, 4200)
	s.Add(calib.SidePixel, 250)

	s.RemoveNearest(calib.SidePixel, 101)
	requireCounts(t, s, 2, 1)
	if pairs := s.Pairs(); len(pairs) != 1 || pairs[0].Pixel != 200 || pairs[0].Wavelength != 4200 {
		t.Fatalf("pairs = %+v", pairs)
	}
}

func TestRemoveNearestEmpty(t *testing.T) {
	if New().RemoveNearest(calib.SidePixel, 1) {
		t.Fatal("removed from empty store")
	}
}

func TestUndoAutoRestoresManualState(t *testing.T) {
	s := New()
	s.AddManual(100, 4000)
	s.AddAuto(150, 4100)
	s.AddManual(200, 4200)
	s.AddAuto(250, 4300)
	s.Add(calib.SideWavelength, 4500)

	if n := s.UndoAuto(); n != 2 {
		t.Fatalf("UndoAuto removed %d, want 2", n)
	}
	requireCounts(t, s, 2, 3)
	for _, p := range s.Pairs() {
		if p.Origin != Manual {
			t.Fatalf("auto pair survived: %+v", p)
		}
	}
	if !s.Contains(calib.SideWavelength, 4500) {
		t.Fatal("dangling manual mark lost")
	}
}

func TestAutoPairsStayAheadOfDanglingMarks(t *testing.T) {
	s := New()
	s.AddManual(100, 4000)
	s.Add(calib.SidePixel, 300)
	s.AddAuto(200, 4200)

	pairs := s.Pairs()
	if len(pairs) != 2 || pairs[1].Pixel != 200 || pairs[1].Wavelength != 4200 || pairs[1].Origin != Auto {
		t.Fatalf("pairs = %+v", pairs)
	}
	if v := s.Values(calib.SidePixel); v[len(v)-1] != 300 {
		t.Fatalf("dangling mark not last: %v", v)
	}
}

func TestClear(t *testing.T) {
	s := New()
	s.AddManual(1, 2)
	s.Add(calib.SidePixel, 3)
	s.Clear()
	requireCounts(t, s, 0, 0)
}
