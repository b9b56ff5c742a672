package domain

// Question is a multiple-choice question with exactly one correct answer.
type Question struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
	Correct  int      `json:"correct"`
}

// Category describes a question bucket and how it is presented.
type Category struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Order       int    `json:"order"`
}

// QuestionBank is everything a question loader produces.
type QuestionBank struct {
	Categories []Category            `json:"categories"`
	Questions  map[string][]Question `json:"questions"`
}

// Category returns the category with the given id.
func (b QuestionBank) Category(id string) (Category, bool) {
	for _, c := range b.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// ShuffledQuestion is a question whose answers were permuted for one serving.
// Permutation[i] is the original index of the answer now shown at position i.
type ShuffledQuestion struct {
	Question
	Permutation     []int `json:"-"`
	OriginalCorrect int   `json:"-"`
}

// PublicQuestion is what clients see; it never carries the correct index.
type PublicQuestion struct {
	ID             int      `json:"id"`
	Question       string   `json:"question"`
	Answers        []string `json:"answers"`
	QuestionNumber int      `json:"questionNumber"`
	TotalQuestions int      `json:"totalQuestions"`
	TimeLimit      int      `json:"timeLimit"`
	StartTime      int64    `json:"startTime"`
}

// AnswerRecord is appended once per question and never changed.
type AnswerRecord struct {
	QuestionID  int     `json:"questionId"`
	AnswerIndex int     `json:"answerIndex"`
	Correct     bool    `json:"correct"`
	TimeSpent   float64 `json:"timeSpent"`
	TimeBonus   int     `json:"timeBonus"`
	WasInTime   bool    `json:"wasInTime"`
	Points      int     `json:"points"`
	Timeout     bool    `json:"timeout,omitempty"`
}

// QuizStart is returned when a session is created.
type QuizStart struct {
	SessionID      string `json:"sessionId"`
	TotalQuestions int    `json:"totalQuestions"`
	Category       string `json:"category"`
	TimeLimit      int    `json:"timeLimit"`
}

// AnswerOutcome summarizes an answer or timeout. Points is the base point,
// Awarded is Points plus TimeBonus.
type AnswerOutcome struct {
	Correct        bool    `json:"correct"`
	CorrectAnswer  int     `json:"correctAnswer"`
	Score          int     `json:"score"`
	TimeSpent      float64 `json:"timeSpent"`
	TimeBonus      int     `json:"timeBonus"`
	WasInTime      bool    `json:"wasInTime"`
	Points         int     `json:"points"`
	Awarded        int     `json:"awarded"`
	Timeout        bool    `json:"timeout,omitempty"`
	IsLastQuestion bool    `json:"isLastQuestion"`
}

// QuizResult is the aggregate summary of a session.
type QuizResult struct {
	Score              int            `json:"score"`
	CorrectAnswers     int            `json:"correctAnswers"`
	TotalQuestions     int            `json:"totalQuestions"`
	Percentage         int            `json:"percentage"`
	ScorePercentage    int            `json:"scorePercentage"`
	Category           string         `json:"category"`
	Answers            []AnswerRecord `json:"answers"`
	TotalTimeSpent     int            `json:"totalTimeSpent"`
	AvgTimePerQuestion float64        `json:"avgTimePerQuestion"`
	TimeBonus          int            `json:"timeBonus"`
	TotalPossibleScore int            `json:"totalPossibleScore"`
}

// HighscoreEntry is the best score of one user in one category.
type HighscoreEntry struct {
	Username       string `json:"username"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	Timestamp      int64  `json:"timestamp"` // epoch ms
}

// HighscoreSubmission is a request to record a finished quiz in the ledger.
type HighscoreSubmission struct {
	Username       string
	Category       string
	Score          int
	TotalQuestions int
	SessionID      string
	UserAgent      string
}

// GameLogEntry is one line of the monthly game log.
type GameLogEntry struct {
	Timestamp string `json:"timestamp"`
	Username  string `json:"username"`
	Category  string `json:"category"`
	Duration  string `json:"duration"`
	Score     int    `json:"score"`
	Total     int    `json:"total"`
	Device    string `json:"device"`
	UserAgent string `json:"userAgent"`
}
