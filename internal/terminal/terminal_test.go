package terminal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/robalobadob/wordle-solo/internal/game"
	"github.com/robalobadob/wordle-solo/internal/play"
	"github.com/robalobadob/wordle-solo/internal/store"
	"github.com/robalobadob/wordle-solo/internal/words"
)

// newController returns a controller whose secret is always CRANE.
func newController(t *testing.T, maxAttempts int) *play.Controller {
	t.Helper()
	return newControllerWithScores(t, maxAttempts, nil)
}

func newControllerWithScores(t *testing.T, maxAttempts int, scores game.HighScoreSaver) *play.Controller {
	t.Helper()
	dict, err := words.Load(strings.NewReader("CRANE\nSLATE\nPIOUS\n"), 5,
		words.WithPicker(func(int) (int, error) { return 0, nil }))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sess, err := game.NewSession(dict, game.Options{MaxAttempts: maxAttempts, Scores: scores})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return play.New(sess, nil)
}

func TestRun_ScriptedWin(t *testing.T) {
	ctrl := newController(t, 6)
	var out bytes.Buffer
	in := strings.NewReader("cr\nzzzzz\nslate\ncrane\nn\n")

	if err := Run(context.Background(), in, &out, ctrl, Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Guess the 5-letter word in 6 tries.",
		"Enter exactly 5 letters.",
		"Not in word list",
		" S  L [A] T [E]",
		"[C][R][A][N][E]",
		"Solved in 2/6!",
		"Play again? [Y/n]",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
	if ctrl.Snapshot().Status != game.StatusWon {
		t.Fatalf("status = %s", ctrl.Snapshot().Status)
	}
}

func TestRun_LossRevealsWordAndPlaysAgain(t *testing.T) {
	ctrl := newController(t, 1)
	var out bytes.Buffer
	in := strings.NewReader("slate\n\n:q\n")

	if err := Run(context.Background(), in, &out, ctrl, Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Out of guesses. The word was CRANE.") {
		t.Fatalf("loss message missing:\n%s", got)
	}
	if !strings.Contains(got, "Streak: 0  High score: 0") {
		t.Fatalf("reset summary missing:\n%s", got)
	}
	if n := strings.Count(got, "Guess 1/1>"); n != 2 {
		t.Fatalf("prompted %d times, want 2:\n%s", n, got)
	}
	if snap := ctrl.Snapshot(); snap.Status != game.StatusInProgress || snap.Attempts != 0 {
		t.Fatalf("snapshot after replay = %+v", snap)
	}
}

func TestRun_QuitAfterWinSavesHighScore(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"answer no", "crane\nn\n"},
		{"quit command", "crane\n:q\n"},
		{"end of input", "crane\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "highscore.txt")
			ctrl := newControllerWithScores(t, 6, store.NewFileHighScore(path))

			if err := Run(context.Background(), strings.NewReader(tt.input), io.Discard, ctrl, Options{}); err != nil {
				t.Fatalf("Run: %v", err)
			}
			b, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read high score: %v", err)
			}
			if string(b) != "1\n" {
				t.Fatalf("high score file = %q, want \"1\\n\"", b)
			}
			if snap := ctrl.Snapshot(); snap.Streak != 1 || snap.HighScore != 1 {
				t.Fatalf("streak %d high %d", snap.Streak, snap.HighScore)
			}
		})
	}
}

// endless yields "crane" lines forever.
type endless struct{}

func (endless) Read(p []byte) (int, error) {
	const line = "crane\n"
	n := 0
	for n+len(line) <= len(p) {
		n += copy(p[n:], line)
	}
	return n, nil
}

func TestReadLines_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	lines := readLines(ctx, endless{})
	if l := <-lines; l != "crane" {
		t.Fatalf("first line = %q", l)
	}
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-lines:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("reader goroutine still running after cancel")
		}
	}
}

func TestRun_EOFQuits(t *testing.T) {
	ctrl := newController(t, 6)
	if err := Run(context.Background(), strings.NewReader(""), io.Discard, ctrl, Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRun_CancelWhileWaiting(t *testing.T) {
	ctrl := newController(t, 6)
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Run(ctx, pr, io.Discard, ctrl, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestTile(t *testing.T) {
	plain := &ui{}
	color := &ui{opts: Options{Color: true}}
	tests := []struct {
		name string
		u    *ui
		mark game.Mark
		want string
	}{
		{"plain correct", plain, game.MarkCorrect, "[A]"},
		{"plain present", plain, game.MarkPresent, "(A)"},
		{"plain absent", plain, game.MarkAbsent, " A "},
		{"plain unknown", plain, "", " a "},
		{"color correct", color, game.MarkCorrect, "\x1b[30;42m A \x1b[0m"},
		{"color unknown", color, "", " A "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.u.tile('A', tt.mark); got != tt.want {
				t.Fatalf("tile = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyboard(t *testing.T) {
	u := &ui{}
	kb := u.keyboard(map[string]game.Mark{"Q": game.MarkCorrect, "Z": game.MarkAbsent, "A": game.MarkPresent})
	rows := strings.Split(kb, "\n")
	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
	if !strings.HasPrefix(rows[0], "[Q] w ") || !strings.HasPrefix(rows[1], " (A) s ") || !strings.HasPrefix(rows[2], "   Z  x ") {
		t.Fatalf("keyboard =\n%s", kb)
	}
}
