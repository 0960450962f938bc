package domain

import "testing"

func TestUpdateScoreClampsAtZero(t *testing.T) {
	for start := 0; start <= 5; start++ {
		for points := -7; points <= 7; points++ {
			g := newTestState()
			g.ScoreLocal = start
			got, err := g.UpdateScore(TeamLocal, points)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := max(0, start+points)
			if got != want || g.ScoreLocal != want {
				t.Fatalf("start %d points %d: expected %d, got %d", start, points, want, g.ScoreLocal)
			}
		}
	}
}

func TestUpdateScoreTouchesOnlyOneTeam(t *testing.T) {
	g := newTestState()
	if _, err := g.UpdateScore(TeamGuest, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.ScoreGuest != 3 || g.ScoreLocal != 0 {
		t.Fatalf("expected 0-3, got %d-%d", g.ScoreLocal, g.ScoreGuest)
	}
}

func TestUpdateScoreInvalidTeam(t *testing.T) {
	g := newTestState()
	before := g
	if _, err := g.UpdateScore(Team("visitors"), 2); err != ErrInvalidTeam {
		t.Fatalf("expected ErrInvalidTeam, got %v", err)
	}
	if g != before {
		t.Fatal("invalid team must not change state")
	}
}

func TestParseTeam(t *testing.T) {
	for in, want := range map[string]Team{"local": TeamLocal, " Guest ": TeamGuest, "LOCAL": TeamLocal} {
		got, err := ParseTeam(in)
		if err != nil || got != want {
			t.Fatalf("ParseTeam(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseTeam("home"); err != ErrInvalidTeam {
		t.Fatalf("expected ErrInvalidTeam, got %v", err)
	}
}

func TestGameOverNoticeCarriesScores(t *testing.T) {
	n := GameOverNotice(5, 2)
	if n.ScoreLocal != 5 || n.ScoreGuest != 2 || !n.Blocking {
		t.Fatalf("unexpected notice: %+v", n)
	}
	if n.Message != "Game over! Final score: Local 5 - Guest 2" {
		t.Fatalf("unexpected message: %q", n.Message)
	}
}

func TestBoundaryNotice(t *testing.T) {
	n, ok := BoundaryNotice(ErrMaxPeriods, 4)
	if !ok || n.Kind != NoticeMaxPeriods || !n.Blocking || n.Period != 4 {
		t.Fatalf("unexpected max periods notice: %+v", n)
	}
	if n, ok := BoundaryNotice(ErrAlreadyRunning, 1); !ok || n.Blocking {
		t.Fatalf("already running should be a non-blocking notice: %+v", n)
	}
	if _, ok := BoundaryNotice(ErrInvalidTeam, 1); ok {
		t.Fatal("invalid team is not a boundary condition")
	}
}
