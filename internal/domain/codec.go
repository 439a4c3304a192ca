package domain

import (
	"encoding/json"
	"fmt"
)

type gameJSON struct {
	History   []Entry `json:"history"`
	Step      int     `json:"step"`
	Ascending bool    `json:"ascending"`
}

// MarshalJSON encodes the full history, the current step and the list order.
// A zero Game encodes as a fresh start.
func (g Game) MarshalJSON() ([]byte, error) {
	history := g.history
	if len(history) == 0 {
		history = []Entry{{Move: NoMove}}
	}
	return json.Marshal(gameJSON{History: history, Step: g.step, Ascending: g.ascending})
}

// UnmarshalJSON decodes a game and rejects histories that could not have been
// produced by Play.
func (g *Game) UnmarshalJSON(b []byte) error {
	var raw gameJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if err := validate(raw.History, raw.Step); err != nil {
		return err
	}
	*g = Game{history: raw.History, step: raw.Step, ascending: raw.Ascending}
	return nil
}

func validate(history []Entry, step int) error {
	if len(history) == 0 {
		return fmt.Errorf("%w: empty", ErrCorruptHistory)
	}
	if history[0].Move != NoMove || history[0].Squares != (Board{}) {
		return fmt.Errorf("%w: entry 0 is not the empty board", ErrCorruptHistory)
	}
	for i := 1; i < len(history); i++ {
		prev, cur := history[i-1], history[i]
		if cur.Move < 0 || cur.Move > 8 {
			return fmt.Errorf("%w: entry %d move %d", ErrCorruptHistory, i, cur.Move)
		}
		if _, won := Evaluate(prev.Squares); won {
			return fmt.Errorf("%w: entry %d follows a won board", ErrCorruptHistory, i)
		}
		want := prev.Squares
		if want[cur.Move] != Empty {
			return fmt.Errorf("%w: entry %d plays an occupied cell", ErrCorruptHistory, i)
		}
		// entry i was played at step i-1
		want[cur.Move] = X
		if (i-1)%2 == 1 {
			want[cur.Move] = O
		}
		if cur.Squares != want {
			return fmt.Errorf("%w: entry %d does not follow from entry %d", ErrCorruptHistory, i, i-1)
		}
	}
	if step < 0 || step >= len(history) {
		return fmt.Errorf("%w: step %d", ErrCorruptHistory, step)
	}
	return nil
}
