package model

import (
	"encoding/gob"

	"github.com/google/uuid"
)

// Broadcast actions.
const (
	ActionBoard    = "board"
	ActionRobots   = "robots"
	ActionGoals    = "goals"
	ActionClock    = "clock"
	ActionSolution = "solution"
	ActionAward    = "award"
	ActionError    = "error"
)

// Clock modes.
const (
	ClockTimer     = "timer"
	ClockCountdown = "countdown"
)

// Message is one outbound frame: an action tag and its content.
type Message struct {
	Action  string `json:"action"`
	Content any    `json:"content"`
}

type RobotPayload struct {
	Position   Position `json:"position"`
	Color      string   `json:"color"`
	LegalMoves []string `json:"legal_moves"`
}

type GoalPayload struct {
	Position Position `json:"position"`
	Symbol   string   `json:"symbol"`
	Active   bool     `json:"active"`
}

type ClockPayload struct {
	ElapsedTimer int    `json:"elapsed_timer"`
	Countdown    int    `json:"countdown"`
	Mode         string `json:"mode"`
}

type SolutionPayload struct {
	Moves     int    `json:"moves"`
	Robots    int    `json:"robots"`
	Submitter string `json:"submitter"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

func init() {
	// gob needs the concrete types behind Message.Content
	gob.Register([][]int{})
	gob.Register([]RobotPayload{})
	gob.Register([]GoalPayload{})
	gob.Register(ClockPayload{})
	gob.Register(SolutionPayload{})
	gob.Register(ErrorPayload{})
}

func BoardMessage(v VisualGrid) Message {
	return Message{Action: ActionBoard, Content: v.Rows()}
}

func RobotsMessage(robots []Robot) Message {
	content := make([]RobotPayload, 0, len(robots))
	for _, r := range robots {
		moves := make([]string, 0, len(r.Moves))
		for _, d := range r.Moves {
			moves = append(moves, d.String())
		}
		content = append(content, RobotPayload{
			Position:   r.Position,
			Color:      r.Color.String(),
			LegalMoves: moves,
		})
	}
	return Message{Action: ActionRobots, Content: content}
}

func GoalsMessage(goals []Goal) Message {
	content := make([]GoalPayload, 0, len(goals))
	for _, g := range goals {
		content = append(content, GoalPayload{
			Position: g.Position,
			Symbol:   g.Symbol.String(),
			Active:   g.Active,
		})
	}
	return Message{Action: ActionGoals, Content: content}
}

func ClockMessage(elapsed, countdown int, counting bool) Message {
	mode := ClockTimer
	if counting {
		mode = ClockCountdown
	}
	return Message{Action: ActionClock, Content: ClockPayload{
		ElapsedTimer: elapsed,
		Countdown:    countdown,
		Mode:         mode,
	}}
}

func solutionPayload(s Solution) SolutionPayload {
	submitter := ""
	if s.Submitter != uuid.Nil {
		submitter = s.Submitter.String()
	}
	return SolutionPayload{Moves: s.Moves, Robots: s.Robots, Submitter: submitter}
}

func SolutionMessage(s Solution) Message {
	return Message{Action: ActionSolution, Content: solutionPayload(s)}
}

func AwardMessage(s Solution) Message {
	return Message{Action: ActionAward, Content: solutionPayload(s)}
}

func ErrorMessage(err error) Message {
	return Message{Action: ActionError, Content: ErrorPayload{Error: err.Error()}}
}
