package battle

// Input is the held-key snapshot for the player knight on one tick.
type Input struct {
	Up, Down, Left, Right bool // WASD or arrows
	RotateCCW             bool // Q
	RotateCW              bool // E
	Block                 bool // C
	Attack                bool // Space
}

// Any reports whether any key is held.
func (in Input) Any() bool {
	return in != (Input{})
}

// InputSource supplies the player's held keys, consulted once per tick.
type InputSource interface {
	Input() Input
}

// InputFunc adapts a function to InputSource.
type InputFunc func() Input

// Input calls f.
func (f InputFunc) Input() Input { return f() }

// NoInput is the InputSource of an all-AI battle.
var NoInput InputSource = InputFunc(func() Input { return Input{} })
