package app

import (
	"math"

	"timed-quiz-service/internal/domain"
)

const (
	basePoints   = 1
	maxTimeBonus = 3
	// MaxPointsPerQuestion is the best possible outcome of one question.
	MaxPointsPerQuestion = basePoints + maxTimeBonus
)

// timeBonus tiers the bonus by the share of the limit that was left.
func timeBonus(timeLeft, limit float64) int {
	switch {
	case timeLeft > 0.7*limit:
		return 3
	case timeLeft > 0.4*limit:
		return 2
	case timeLeft > 0:
		return 1
	default:
		return 0
	}
}

// scoreAnswer returns base points, bonus and whether the answer arrived in time.
// Only correct answers within the limit earn anything.
func scoreAnswer(correct bool, elapsed, limit float64) (points, bonus int, inTime bool) {
	inTime = elapsed <= limit
	if !correct || !inTime {
		return 0, 0, inTime
	}
	timeLeft := math.Max(0, limit-elapsed)
	return basePoints, timeBonus(timeLeft, limit), inTime
}

// summarize aggregates the per-question records into the final result.
func summarize(categoryName string, totalQuestions, score, bonus int, totalTime float64, answers []domain.AnswerRecord) domain.QuizResult {
	correct := 0
	for _, a := range answers {
		if a.Correct {
			correct++
		}
	}

	records := make([]domain.AnswerRecord, len(answers))
	copy(records, answers)

	result := domain.QuizResult{
		Score:              score,
		CorrectAnswers:     correct,
		TotalQuestions:     totalQuestions,
		Category:           categoryName,
		Answers:            records,
		TotalTimeSpent:     int(math.Round(totalTime)),
		TimeBonus:          bonus,
		TotalPossibleScore: totalQuestions * MaxPointsPerQuestion,
	}
	if totalQuestions == 0 {
		return result
	}
	result.Percentage = int(math.Round(100 * float64(correct) / float64(totalQuestions)))
	result.ScorePercentage = int(math.Round(100 * float64(score) / float64(result.TotalPossibleScore)))
	result.AvgTimePerQuestion = math.Round(totalTime/float64(totalQuestions)*10) / 10
	return result
}
