package play

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/robalobadob/wordle-solo/internal/game"
	"github.com/robalobadob/wordle-solo/internal/store"
	"github.com/robalobadob/wordle-solo/internal/words"
)

// newController builds a controller whose secret is always the first word.
func newController(t *testing.T, maxAttempts int) (*Controller, store.Recorder) {
	t.Helper()
	dict, err := words.Load(strings.NewReader("CRANE\nSLATE\nPIOUS\n"), 5,
		words.WithPicker(func(int) (int, error) { return 0, nil }))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sess, err := game.NewSession(dict, game.Options{MaxAttempts: maxAttempts})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	rec := store.NewMemoryRecorder()
	return New(sess, rec), rec
}

func TestController_TypeAndSubmit(t *testing.T) {
	c, _ := newController(t, 6)
	ctx := context.Background()

	snap := c.Type("sla")
	if snap.Buffer != "SLA" {
		t.Fatalf("Buffer = %q", snap.Buffer)
	}
	res, err := c.Submit(ctx)
	if err != nil || res.Accepted {
		t.Fatalf("partial submit = %+v, %v", res, err)
	}

	c.Type("zzzzz")
	if _, err := c.Submit(ctx); !errors.Is(err, game.ErrInvalidWord) {
		t.Fatalf("err = %v, want ErrInvalidWord", err)
	}

	c.Type("slate")
	res, err = c.Submit(ctx)
	if err != nil || !res.Accepted {
		t.Fatalf("Submit = %+v, %v", res, err)
	}
	if len(res.Feedback) != 5 || res.Snapshot.Attempts != 1 || res.Snapshot.Buffer != "" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Snapshot.Letters["A"] != game.MarkCorrect || res.Snapshot.Letters["S"] != game.MarkAbsent {
		t.Fatalf("Letters = %v", res.Snapshot.Letters)
	}
	if res.Snapshot.Answer != "" {
		t.Fatalf("answer leaked mid-round")
	}
}

func TestController_RecordsFinishedRoundOnce(t *testing.T) {
	c, rec := newController(t, 2)
	ctx := context.Background()

	for _, w := range []string{"PIOUS", "SLATE"} {
		c.Type(w)
		if _, err := c.Submit(ctx); err != nil {
			t.Fatalf("Submit(%s): %v", w, err)
		}
	}
	snap := c.Snapshot()
	if snap.Status != game.StatusLost || snap.Answer != "CRANE" {
		t.Fatalf("snapshot = %+v", snap)
	}

	// Extra submissions after the round ends are ignored and not re-recorded.
	c.Type("CRANE")
	if res, _ := c.Submit(ctx); res.Accepted {
		t.Fatalf("submit after loss accepted")
	}

	rounds, _ := rec.Recent(ctx, 10)
	if len(rounds) != 1 || rounds[0].Won || rounds[0].Attempts != 2 || rounds[0].Secret != "CRANE" {
		t.Fatalf("recorded rounds = %+v", rounds)
	}

	snap, ok := c.Reset(ctx)
	if !ok || snap.Status != game.StatusInProgress || snap.Streak != 0 {
		t.Fatalf("Reset = %+v, %v", snap, ok)
	}

	c.Type("CRANE")
	if _, err := c.Submit(ctx); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	snap, _ = c.Reset(ctx)
	if snap.Streak != 1 || snap.HighScore != 1 {
		t.Fatalf("after win: streak %d high %d", snap.Streak, snap.HighScore)
	}

	st, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.GamesPlayed != 2 || st.Wins != 1 || st.Distribution[0] != 1 {
		t.Fatalf("Stats = %+v", st)
	}
}

func TestController_ResetInProgressIsIgnored(t *testing.T) {
	c, _ := newController(t, 6)
	c.Letter('c')
	snap, ok := c.Reset(context.Background())
	if ok || snap.Buffer != "C" {
		t.Fatalf("Reset in progress = %+v, %v", snap, ok)
	}
	if snap = c.Delete(); snap.Buffer != "" {
		t.Fatalf("Delete: buffer %q", snap.Buffer)
	}
}

func TestController_NoRecorder(t *testing.T) {
	dict, _ := words.Load(strings.NewReader("CRANE\n"), 5)
	sess, _ := game.NewSession(dict, game.Options{})
	c := New(sess, nil)
	st, err := c.Stats(context.Background())
	if err != nil || len(st.Distribution) != 6 {
		t.Fatalf("Stats = %+v, %v", st, err)
	}
	rounds, err := c.Recent(context.Background(), 5)
	if err != nil || rounds == nil || len(rounds) != 0 {
		t.Fatalf("Recent = %v, %v", rounds, err)
	}
}

func TestController_CloseSettlesFinishedRound(t *testing.T) {
	c, _ := newController(t, 6)
	ctx := context.Background()

	if err := c.Close(ctx); err != nil || c.Snapshot().Streak != 0 {
		t.Fatalf("Close in progress = %v, streak %d", err, c.Snapshot().Streak)
	}
	c.Type("CRANE")
	if _, err := c.Submit(ctx); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := c.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	snap := c.Snapshot()
	if snap.Streak != 1 || snap.HighScore != 1 || snap.Status != game.StatusWon {
		t.Fatalf("after Close = %+v", snap)
	}
	if snap, _ = c.Reset(ctx); snap.Streak != 1 {
		t.Fatalf("Reset after Close counted the win again: streak %d", snap.Streak)
	}
}
