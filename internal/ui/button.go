package ui

// CommandKind tags what a button press means. Buttons carry data, not
// behavior; the app switches on the kind when dispatching a click.
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdSetDifficulty
	CmdSetColor
	CmdStart
	CmdNewGame
	CmdResign
)

// Command is the payload a button press dispatches. Value carries the
// skill level for CmdSetDifficulty and 0 (white) or 1 (black) for
// CmdSetColor; other kinds ignore it.
type Command struct {
	Kind  CommandKind
	Value int
}

// Button is a plain clickable rectangle.
type Button struct {
	X, Y, W, H int
	Label      string
	Cmd        Command
	Selected   bool
	Enabled    bool
}

func (b *Button) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// hitButton returns the command of the first enabled button containing the
// point, or a CmdNone command.
func hitButton(buttons []*Button, x, y int) Command {
	for _, b := range buttons {
		if b.Enabled && b.Contains(x, y) {
			return b.Cmd
		}
	}
	return Command{Kind: CmdNone}
}
