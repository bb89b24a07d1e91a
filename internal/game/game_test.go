package game

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/robalobadob/letterpress/internal/board"
	"github.com/robalobadob/letterpress/internal/engine"
)

const pairBoard = "AABBCDEFGHIJKLMNOPQRSTUVW"

func newGame(t *testing.T) *Game {
	t.Helper()
	s := engine.NewSolver([]string{"AB", "BA", "CAB"}, engine.DefaultConfig())
	g, err := New(s, "aabbcdefghijklmnopqrstuvw", "", board.Blue)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestNew(t *testing.T) {
	g := newGame(t)
	snap := g.Snapshot()
	if snap.Letters != pairBoard || snap.Colors != "w9w9w7" || snap.Move != board.Blue {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Over || snap.Blue != 0 || snap.Red != 0 {
		t.Fatalf("fresh game counts = %+v", snap)
	}

	s := engine.NewSolver([]string{"AB"}, engine.DefaultConfig())
	r, err := New(s, "", "B5", board.Red)
	if err != nil {
		t.Fatalf("New random: %v", err)
	}
	if len(r.Letters) != 25 || r.Move != board.Red || r.Colors != "b5w9w9w2" {
		t.Fatalf("random game = %q %v %q", r.Letters, r.Move, r.Colors)
	}

	if _, err := New(s, "SHORT", "", board.Blue); !errors.Is(err, engine.ErrBadLetters) {
		t.Fatalf("err = %v, want ErrBadLetters", err)
	}
}

func TestSearchPages(t *testing.T) {
	g := newGame(t)
	page, err := g.Search("a", "", 0, 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page.Total != 12 || len(page.Plays) != 5 {
		t.Fatalf("page = total %d, %d plays", page.Total, len(page.Plays))
	}
	for i := 1; i < len(page.Plays); i++ {
		if page.Plays[i].Score > page.Plays[i-1].Score {
			t.Fatalf("page not ranked: %v", page.Plays)
		}
	}
	tail, err := g.Search("A", "", 10, 5)
	if err != nil {
		t.Fatal(err)
	}
	if tail.Total != 12 || len(tail.Plays) != 2 {
		t.Fatalf("tail = total %d, %d plays", tail.Total, len(tail.Plays))
	}
	past, _ := g.Search("A", "", 50, 5)
	if len(past.Plays) != 0 {
		t.Fatalf("offset past the end returned %d plays", len(past.Plays))
	}
}

func TestPlayAndUndo(t *testing.T) {
	g := newGame(t)
	snap, err := g.Play("ab", board.Bit(0)|board.Bit(2), 0)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	want := []Turn{{Word: "AB", Colors: "w9w9w7", Move: board.Blue}}
	if diff := cmp.Diff(want, snap.Turns); diff != "" {
		t.Fatalf("turns (-want +got):\n%s", diff)
	}
	if snap.Colors != "bwbw9w9w4" || snap.Move != board.Red || snap.Blue != 2 {
		t.Fatalf("after play = %+v", snap)
	}
	words, err := g.Words("", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"BA", "CAB"}, words); diff != "" {
		t.Fatalf("open words (-want +got):\n%s", diff)
	}
	if _, err := g.Play("AB", board.Bit(1)|board.Bit(3), 0); !errors.Is(err, engine.ErrNotPlayable) {
		t.Fatalf("replay err = %v, want ErrNotPlayable", err)
	}

	snap, err = g.Undo()
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if snap.Colors != "w9w9w7" || snap.Move != board.Blue || len(snap.Turns) != 0 {
		t.Fatalf("after undo = %+v", snap)
	}
	if _, err := g.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("err = %v, want ErrNothingToUndo", err)
	}
	if _, err := g.Play("AB", board.Bit(0), board.Bit(0)); !errors.Is(err, ErrOverlap) {
		t.Fatalf("err = %v, want ErrOverlap", err)
	}
}

func TestSearchCacheIsDropped(t *testing.T) {
	g := newGame(t)
	before, err := g.Search("A", "", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Play("CAB", board.Bit(0)|board.Bit(2)|board.Bit(4), 0); err != nil {
		t.Fatal(err)
	}
	after, err := g.Search("A", "", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	// CAB is played, so only AB and BA remain, now placed for red
	if before.Total != 12 || after.Total != 8 {
		t.Fatalf("totals = %d then %d, want 12 then 8", before.Total, after.Total)
	}
	for _, p := range after.Plays {
		if p.Word == "CAB" || p.Blue != 0 && p.Red == 0 {
			t.Fatalf("stale play after the move: %+v", p)
		}
	}
}

func TestPlayCells(t *testing.T) {
	g := newGame(t)
	snap, err := g.PlayCells("cab", []int{4, 1, 3})
	if err != nil {
		t.Fatalf("PlayCells: %v", err)
	}
	pos := board.Decode(snap.Colors)
	if pos.Blue != board.Bit(1)|board.Bit(3)|board.Bit(4) {
		t.Fatalf("blue = %b", pos.Blue)
	}
	if _, err := g.PlayCells("AB", []int{4, 1}); !errors.Is(err, engine.ErrBadPlacement) {
		t.Fatalf("err = %v, want ErrBadPlacement", err)
	}
}

func TestRestore(t *testing.T) {
	g := newGame(t)
	if _, err := g.Play("AB", board.Bit(0)|board.Bit(2), 0); err != nil {
		t.Fatal(err)
	}
	s := engine.NewSolver([]string{"AB", "BA", "CAB"}, engine.DefaultConfig())
	r, err := Restore(s, g.Snapshot())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if diff := cmp.Diff(g.Snapshot(), r.Snapshot()); diff != "" {
		t.Fatalf("restored snapshot (-want +got):\n%s", diff)
	}
	words, _ := r.Words("", "", "")
	if diff := cmp.Diff([]string{"BA", "CAB"}, words); diff != "" {
		t.Fatalf("restored open words (-want +got):\n%s", diff)
	}
}

func TestStream(t *testing.T) {
	g := newGame(t)
	var starts []int
	total := 0
	err := g.Stream(context.Background(), "A", "", 5, func(index int, plays []engine.Play) error {
		starts = append(starts, index)
		total += len(plays)
		return nil
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if diff := cmp.Diff([]int{0, 5, 10}, starts); diff != "" {
		t.Fatalf("batch starts (-want +got):\n%s", diff)
	}
	if total != 12 {
		t.Fatalf("streamed %d plays, want 12", total)
	}

	stop := errors.New("stop")
	calls := 0
	err = g.Stream(context.Background(), "A", "", 5, func(int, []engine.Play) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Fatalf("Stream = %v after %d calls", err, calls)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := g.Stream(ctx, "A", "", 5, func(int, []engine.Play) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
