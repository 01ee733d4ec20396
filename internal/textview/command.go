package textview

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vancomm/treasure-sweeper/internal/board"
	"github.com/vancomm/treasure-sweeper/internal/game"
)

type Action int

const (
	Reveal Action = iota + 1
	Flag
	Exit
)

type Command struct {
	Action   Action
	Row, Col int
}

var ErrInvalidCommand = errors.New("invalid command")

const prompt = "Enter your move (e.g., 'R 1 2' for reveal or 'F 1 2' for flag): "

func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if strings.EqualFold(line, "exit") {
		return Command{Action: Exit}, nil
	}

	tokens := strings.Fields(line)
	if len(tokens) != 3 {
		return Command{}, fmt.Errorf("%w: use 'R row col' or 'F row col'", ErrInvalidCommand)
	}

	var cmd Command
	switch strings.ToUpper(tokens[0]) {
	case "R":
		cmd.Action = Reveal
	case "F":
		cmd.Action = Flag
	default:
		return Command{}, fmt.Errorf("%w: use 'R' to reveal or 'F' to flag", ErrInvalidCommand)
	}

	var err error
	if cmd.Row, err = strconv.Atoi(tokens[1]); err != nil {
		return Command{}, fmt.Errorf("%w: row must be an int", ErrInvalidCommand)
	}
	if cmd.Col, err = strconv.Atoi(tokens[2]); err != nil {
		return Command{}, fmt.Errorf("%w: column must be an int", ErrInvalidCommand)
	}
	return cmd, nil
}

// Run reads moves from in until the player exits, the input ends or ctx is
// done. Invalid moves are reported to the player and do not stop the loop.
func Run(ctx context.Context, in io.Reader, s *game.Session, v *View) error {
	scanner := bufio.NewScanner(in)
	v.Render()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if s.Over() {
			fmt.Fprint(v.w, "Play again? (y/n): ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			if strings.ToLower(strings.TrimSpace(scanner.Text())) != "y" {
				fmt.Fprintln(v.w, "Thanks for playing!")
				return nil
			}
			if err := s.Restart(s.Params(), v); err != nil {
				return err
			}
			v.Render()
			continue
		}

		fmt.Fprint(v.w, prompt)
		if !scanner.Scan() {
			return scanner.Err()
		}

		cmd, err := ParseCommand(scanner.Text())
		if err != nil {
			fmt.Fprintln(v.w, err)
			continue
		}

		switch cmd.Action {
		case Exit:
			fmt.Fprintln(v.w, "Thanks for playing! Exiting the game...")
			return nil
		case Reveal:
			err = s.Reveal(cmd.Row, cmd.Col)
		case Flag:
			err = s.ToggleFlag(cmd.Row, cmd.Col)
		}
		if errors.Is(err, board.ErrOutOfBounds) {
			fmt.Fprintln(v.w, err)
			continue
		}
		if err != nil {
			return err
		}

		if !s.Over() {
			v.Render()
		}
	}
}
