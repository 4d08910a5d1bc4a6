package session

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/solver"
)

// Judge scores a guess against a hidden secret.
type Judge func(guess handle.Hand) (handle.Result, error)

// Play runs the session against judge until it is solved or maxRounds results were
// observed. onRound, when set, sees each completed round with the plan that chose it.
func Play(ctx context.Context, s *Session, judge Judge, maxRounds int, onRound func(Round, solver.Plan)) (Round, error) {
	for {
		plan, err := s.Next(ctx)
		if err != nil {
			return Round{}, err
		}
		result, err := judge(plan.Best().Hand)
		if err != nil {
			return Round{}, err
		}
		r, err := s.Observe(result)
		if err != nil {
			return r, err
		}
		log.Debug().Str("session", s.ID).Int("round", r.Number).Str("guess", r.Guess.Hand.String()).
			Str("result", r.Result.String()).Int("remaining", r.Remaining).Msg("round")
		if onRound != nil {
			onRound(r, plan)
		}
		if r.Result.Solved() {
			return r, nil
		}
		if maxRounds > 0 && r.Number >= maxRounds {
			return r, ErrRoundLimit
		}
	}
}
