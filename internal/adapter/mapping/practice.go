package mapping

import (
	"github.com/samber/lo"

	"github.com/eslsoft/vocdrill/internal/usecase"
	"github.com/eslsoft/vocdrill/internal/usecase/drill"
	v1 "github.com/eslsoft/vocdrill/pkg/api/vocdrill/v1"
)

func ToPbSession(in *usecase.PracticeSession) *v1.Session {
	return &v1.Session{
		Id:        in.ID,
		WordSetId: in.WordSetID,
		ItemCount: int32(in.ItemCount),
	}
}

func ToPbRound(in *usecase.PracticeRound) *v1.Round {
	return &v1.Round{
		Id:     in.ID,
		Index:  int32(in.Index),
		Prompt: in.Prompt,
		Choices: lo.Map(in.Choices, func(c usecase.PracticeChoice, _ int) *v1.Choice {
			return &v1.Choice{ItemId: c.ItemID, Text: c.Text}
		}),
	}
}

func ToPbAnswerResult(in *usecase.AnswerResult) *v1.AnswerResult {
	return &v1.AnswerResult{
		Correct:       in.Correct,
		CorrectItemId: in.CorrectItemID,
		CorrectAnswer: in.CorrectAnswer,
		CanEnd:        in.CanEnd,
	}
}

func ToPbReport(in drill.Report) *v1.Report {
	return &v1.Report{
		Items: lo.Map(in.Items, func(s drill.ItemStats, _ int) *v1.ItemStats {
			return &v1.ItemStats{
				Id:              s.ID,
				Prompt:          s.Prompt,
				Answer:          s.Answer,
				Shown:           int32(s.Shown),
				Correct:         int32(s.Correct),
				Wrong:           int32(s.Wrong),
				Accuracy:        s.Accuracy,
				CorrectStreak:   int32(s.CorrectStreak),
				WrongStreak:     int32(s.WrongStreak),
				Need:            s.Need,
				AnswerScore:     s.AnswerScore,
				DistractorScore: s.DistractorScore,
			}
		}),
		Rounds:          int32(in.Rounds),
		AverageAccuracy: in.AverageAccuracy,
		AverageNeed:     in.AverageNeed,
		CanEnd:          in.CanEnd,
	}
}
