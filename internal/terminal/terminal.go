// internal/terminal/terminal.go
//
// Line-based terminal front end.
// Responsibilities:
//   - Read one guess per line and forward it to the play controller.
//   - Reveal feedback tile by tile, then show the keyboard line.
//   - Win/loss messages, play-again prompt, ":q" and EOF to quit.
//
// Notes:
//   - Colors are ANSI backgrounds; without them tiles fall back to
//     "[X]" correct, "(X)" present, " X " absent.
//   - Input is read on its own goroutine so a cancelled context ends the
//     loop even while waiting for a line.
//   - On exit the controller is closed so a finished round is settled.

package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-solo/internal/game"
	"github.com/robalobadob/wordle-solo/internal/play"
)

const quitCommand = ":q"

var keyboardRows = []string{"QWERTYUIOP", "ASDFGHJKL", "ZXCVBNM"}

// Options tune rendering.
type Options struct {
	Color       bool
	RevealDelay time.Duration
}

// Stdout returns a writer for the process stdout and whether it is a terminal.
// On Windows consoles the writer translates ANSI sequences.
func Stdout() (io.Writer, bool) {
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return colorable.NewColorable(os.Stdout), true
	}
	return colorable.NewNonColorable(os.Stdout), false
}

type ui struct {
	out   io.Writer
	ctrl  *play.Controller
	opts  Options
	lines <-chan string
}

// Run plays rounds until the player quits, input ends, or ctx is cancelled.
// Only ctx cancellation is reported as an error. A round that ended before
// quitting still counts toward the streak and high score.
func Run(ctx context.Context, in io.Reader, out io.Writer, ctrl *play.Controller, opts Options) error {
	defer func() {
		if err := ctrl.Close(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Msg("settle last round")
		}
	}()

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	u := &ui{out: out, ctrl: ctrl, opts: opts, lines: readLines(readCtx, in)}

	snap := ctrl.Snapshot()
	fmt.Fprintf(out, "Guess the %d-letter word in %d tries. Type %s to quit.\n",
		snap.WordLength, snap.MaxAttempts, quitCommand)
	if snap.HighScore > 0 {
		fmt.Fprintf(out, "High score: %d\n", snap.HighScore)
	}

	for {
		again, err := u.playRound(ctx)
		if err != nil || !again {
			return err
		}
	}
}

// playRound runs until the round ends and the player answers the
// play-again prompt. It reports whether to continue.
func (u *ui) playRound(ctx context.Context) (bool, error) {
	for {
		snap := u.ctrl.Snapshot()
		if snap.Status.Ended() {
			break
		}
		fmt.Fprintf(u.out, "Guess %d/%d> ", snap.Attempts+1, snap.MaxAttempts)
		line, ok, err := u.next(ctx)
		if err != nil || !ok {
			return false, err
		}
		if line == quitCommand {
			return false, nil
		}

		snap = u.ctrl.Type(line)
		if len(line) != snap.WordLength || len(snap.Buffer) != snap.WordLength {
			fmt.Fprintf(u.out, "Enter exactly %d letters.\n", snap.WordLength)
			continue
		}
		res, err := u.ctrl.Submit(ctx)
		if errors.Is(err, game.ErrInvalidWord) {
			fmt.Fprintln(u.out, "Not in word list")
			continue
		}
		if err != nil {
			return false, err
		}
		if !res.Accepted {
			continue
		}
		last := res.Snapshot.History[len(res.Snapshot.History)-1]
		if err := u.reveal(ctx, last); err != nil {
			return false, err
		}
		fmt.Fprintln(u.out, u.keyboard(res.Snapshot.Letters))
	}

	snap := u.ctrl.Snapshot()
	if snap.Status == game.StatusWon {
		fmt.Fprintf(u.out, "Solved in %d/%d!\n", snap.Attempts, snap.MaxAttempts)
	} else {
		fmt.Fprintf(u.out, "Out of guesses. The word was %s.\n", snap.Answer)
	}

	fmt.Fprint(u.out, "Play again? [Y/n] ")
	line, ok, err := u.next(ctx)
	if err != nil || !ok {
		return false, err
	}
	switch strings.ToLower(line) {
	case "n", "no", quitCommand:
		return false, nil
	}

	snap, ok = u.ctrl.Reset(ctx)
	if !ok {
		return false, errors.New("could not start a new round")
	}
	fmt.Fprintf(u.out, "Streak: %d  High score: %d\n", snap.Streak, snap.HighScore)
	return true, nil
}

// next waits for a trimmed input line. ok is false at end of input.
func (u *ui) next(ctx context.Context) (string, bool, error) {
	select {
	case <-ctx.Done():
		fmt.Fprintln(u.out)
		return "", false, ctx.Err()
	case line, ok := <-u.lines:
		return strings.TrimSpace(line), ok, nil
	}
}

// readLines feeds input lines to the returned channel until EOF or ctx is
// done. A read already blocked in the reader is not interrupted.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			log.Debug().Err(err).Msg("read input")
		}
	}()
	return ch
}

// reveal prints one row, pausing RevealDelay between tiles.
func (u *ui) reveal(ctx context.Context, a game.Attempt) error {
	for i, m := range a.Feedback {
		if i > 0 && u.opts.RevealDelay > 0 {
			select {
			case <-ctx.Done():
				fmt.Fprintln(u.out)
				return ctx.Err()
			case <-time.After(u.opts.RevealDelay):
			}
		}
		fmt.Fprint(u.out, u.tile(a.Guess[i], m))
	}
	fmt.Fprintln(u.out)
	return nil
}

func (u *ui) tile(ch byte, m game.Mark) string {
	if u.opts.Color {
		switch m {
		case game.MarkCorrect:
			return "\x1b[30;42m " + string(ch) + " \x1b[0m"
		case game.MarkPresent:
			return "\x1b[30;43m " + string(ch) + " \x1b[0m"
		case game.MarkAbsent:
			return "\x1b[97;100m " + string(ch) + " \x1b[0m"
		}
		return " " + string(ch) + " "
	}
	switch m {
	case game.MarkCorrect:
		return "[" + string(ch) + "]"
	case game.MarkPresent:
		return "(" + string(ch) + ")"
	case game.MarkAbsent:
		return " " + string(ch) + " "
	}
	return " " + strings.ToLower(string(ch)) + " "
}

// keyboard renders known letters by their best mark. Unknown letters are
// lowercase in plain mode so they differ from absent ones.
func (u *ui) keyboard(letters map[string]game.Mark) string {
	var b strings.Builder
	for i, row := range keyboardRows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat(" ", i))
		for j := 0; j < len(row); j++ {
			b.WriteString(u.tile(row[j], letters[string(row[j])]))
		}
	}
	return b.String()
}
