package server

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/robots/model"
)

const (
	defaultCountdown           = 60
	defaultMinSingleRobotMoves = 2
	defaultRoundsUntilRegen    = 5
)

type Settings struct {
	// Countdown is the number of seconds left to beat the first solution.
	Countdown int
	// MinSingleRobotMoves rejects solutions where one robot alone reaches
	// the goal in fewer moves.
	MinSingleRobotMoves int
	// RoundsUntilRegen is the number of awarded rounds played on one board
	// before it is regenerated. Zero keeps the board forever.
	RoundsUntilRegen int
}

func DefaultSettings() Settings {
	return Settings{
		Countdown:           defaultCountdown,
		MinSingleRobotMoves: defaultMinSingleRobotMoves,
		RoundsUntilRegen:    defaultRoundsUntilRegen,
	}
}

// BoardSource lays out a fresh round.
type BoardSource interface {
	Board(rng *rand.Rand) (model.Board, []model.Robot, error)
}

// GeneratedBoards builds random boards and robot placements.
type GeneratedBoards struct{}

func (GeneratedBoards) Board(rng *rand.Rand) (model.Board, []model.Robot, error) {
	board, err := model.NewGenerator(rng).Generate()
	if err != nil {
		return model.Board{}, nil, err
	}
	cells := make([]model.Position, 0, len(board.Goals))
	for _, g := range board.Goals {
		cells = append(cells, g.Position)
	}
	robots, err := model.PlaceRobots(rng, model.Colors, cells...)
	if err != nil {
		return model.Board{}, nil, err
	}
	return board, robots, nil
}

// MoveReport is what the submitter of a move batch gets back.
type MoveReport struct {
	// Robots are the positions to show the submitter: pre-move when the
	// batch solved the goal, post-move otherwise.
	Robots []model.Robot
	Solved bool
	// Solution is the scored attempt when Solved.
	Solution *model.Solution
	// Errors has one slot per submitted move.
	Errors []error
}

// RoundController owns the state of one room's rounds. It is not safe for
// concurrent use: the owning GameSession serializes every call.
type RoundController struct {
	settings Settings
	source   BoardSource
	rand     *rand.Rand

	// OnAward is called when the countdown expires, with the winning record.
	OnAward func(model.Solution)

	grid   *model.BoundaryGrid
	visual model.VisualGrid
	goals  []model.Goal
	robots []model.Robot

	countdown     int
	elapsed       int
	solutionFound bool
	best          *model.Solution
	roundsPlayed  int
}

func NewRoundController(settings Settings, source BoardSource, rng *rand.Rand) *RoundController {
	if settings.Countdown <= 0 {
		settings.Countdown = defaultCountdown
	}
	return &RoundController{
		settings:  settings,
		source:    source,
		rand:      rng,
		countdown: settings.Countdown,
	}
}

// NewRound replaces the whole round state. On error the previous state is
// kept.
func (rc *RoundController) NewRound() ([]model.Message, error) {
	board, robots, err := rc.source.Board(rc.rand)
	if err != nil {
		return nil, fmt.Errorf("new round: %w", err)
	}
	rc.grid = board.Grid
	rc.visual = board.Visual
	rc.goals = board.Goals
	rc.robots = robots
	rc.roundsPlayed = 0
	rc.resetSolution()

	log.WithFields(log.Fields{
		"goals":  len(rc.goals),
		"robots": len(rc.robots),
	}).Info("RoundController.NewRound board ready")
	return rc.Snapshot(), nil
}

func (rc *RoundController) resetSolution() {
	rc.solutionFound = false
	rc.best = nil
	rc.countdown = rc.settings.Countdown
	rc.elapsed = 0
}

// ApplyMoves resolves a batch for submitter. A batch that solves the active
// goal is scored but not committed: the board rolls back to the pre-move
// positions and only the best record and the solution flag advance. A batch
// that reaches the goal too cheaply to count is rolled back as well.
func (rc *RoundController) ApplyMoves(submitter uuid.UUID, moves []model.Move) (MoveReport, []model.Message) {
	if rc.grid == nil {
		return MoveReport{Errors: make([]error, len(moves))}, nil
	}
	next, errs := model.Resolve(rc.robots, rc.grid, moves)
	report := MoveReport{Errors: errs}

	if rc.reached(next, moves) {
		n, k := model.Score(moves, errs)
		report.Robots = model.CloneRobots(rc.robots)
		if !rc.accepts(n, k) {
			log.WithFields(log.Fields{"moves": n, "robots": k}).Info("RoundController.ApplyMoves solution too short")
			return report, []model.Message{model.RobotsMessage(rc.robots)}
		}
		attempt := model.Solution{Moves: n, Robots: k, Submitter: submitter}
		report.Solved = true
		report.Solution = &attempt
		return report, rc.registerSolution(attempt)
	}

	rc.robots = next
	report.Robots = model.CloneRobots(next)
	return report, []model.Message{model.RobotsMessage(rc.robots)}
}

// reached reports whether next has the goal robot on the active goal. A
// robot already standing there before the batch has to leave it on the way.
func (rc *RoundController) reached(next []model.Robot, moves []model.Move) bool {
	if !model.Check(next, rc.goals) {
		return false
	}
	if !model.Check(rc.robots, rc.goals) {
		return true
	}
	robots := rc.robots
	for i := range moves {
		robots, _ = model.Resolve(robots, rc.grid, moves[i:i+1])
		if !model.Check(robots, rc.goals) {
			return true
		}
	}
	return false
}

func (rc *RoundController) accepts(moves, robots int) bool {
	if moves == 0 {
		return false
	}
	return robots > 1 || moves >= rc.settings.MinSingleRobotMoves
}

func (rc *RoundController) registerSolution(s model.Solution) []model.Message {
	var msgs []model.Message
	if s.Better(rc.best) {
		rc.best = &s
		msgs = append(msgs, model.SolutionMessage(s))
		log.WithFields(log.Fields{
			"moves":     s.Moves,
			"robots":    s.Robots,
			"submitter": s.Submitter,
		}).Info("RoundController new best solution")
	}
	if !rc.solutionFound {
		rc.solutionFound = true
		rc.countdown = rc.settings.Countdown
	}
	return append(msgs, rc.clock())
}

// Tick advances the clock by one second. The countdown only runs while a
// solution is pending and never drops below zero; reaching zero awards the
// round.
func (rc *RoundController) Tick() ([]model.Message, error) {
	rc.elapsed++
	if !rc.solutionFound {
		return []model.Message{rc.clock()}, nil
	}
	if rc.countdown > 0 {
		rc.countdown--
	}
	if rc.countdown > 0 {
		return []model.Message{rc.clock()}, nil
	}
	return rc.award()
}

func (rc *RoundController) award() ([]model.Message, error) {
	var msgs []model.Message
	if rc.best != nil {
		best := *rc.best
		log.WithField("submitter", best.Submitter).Info("RoundController awarding round")
		if rc.OnAward != nil {
			rc.OnAward(best)
		}
		msgs = append(msgs, model.AwardMessage(best))
	}
	rc.resetSolution()
	rc.roundsPlayed++

	if rc.settings.RoundsUntilRegen > 0 && rc.roundsPlayed >= rc.settings.RoundsUntilRegen {
		next, err := rc.NewRound()
		if err != nil {
			return append(msgs, rc.clock()), err
		}
		return append(msgs, next...), nil
	}
	rc.nextGoal()
	return append(msgs, model.GoalsMessage(rc.goals), rc.clock()), nil
}

// nextGoal activates a goal other than the current one, preferring goals
// whose robot is not already standing on them.
func (rc *RoundController) nextGoal() {
	if len(rc.goals) < 2 {
		return
	}
	var free, taken []int
	for i, g := range rc.goals {
		if g.Active {
			rc.goals[i].Active = false
			continue
		}
		if model.Reached(g, rc.robots) {
			taken = append(taken, i)
		} else {
			free = append(free, i)
		}
	}
	if len(free) == 0 {
		free = taken
	}
	rc.goals[free[rc.rand.Intn(len(free))]].Active = true
}

func (rc *RoundController) clock() model.Message {
	return model.ClockMessage(rc.elapsed, rc.countdown, rc.solutionFound)
}

// Snapshot is the full state for a newly joined observer.
func (rc *RoundController) Snapshot() []model.Message {
	if rc.grid == nil {
		return nil
	}
	msgs := []model.Message{
		model.BoardMessage(rc.visual),
		model.RobotsMessage(rc.robots),
		model.GoalsMessage(rc.goals),
		rc.clock(),
	}
	if rc.best != nil {
		msgs = append(msgs, model.SolutionMessage(*rc.best))
	}
	return msgs
}

func (rc *RoundController) Robots() []model.Robot {
	return model.CloneRobots(rc.robots)
}

func (rc *RoundController) Goals() []model.Goal {
	return append([]model.Goal(nil), rc.goals...)
}

func (rc *RoundController) Countdown() int { return rc.countdown }

func (rc *RoundController) Elapsed() int { return rc.elapsed }

func (rc *RoundController) SolutionFound() bool { return rc.solutionFound }

func (rc *RoundController) Best() *model.Solution {
	if rc.best == nil {
		return nil
	}
	b := *rc.best
	return &b
}
