package course

import (
	"errors"
	"strconv"
	"strings"
)

// QuizQuestion is one multiple choice question; CorrectAnswer is compared verbatim.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
	Order         int      `json:"order"`
}

func (q QuizQuestion) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return errors.New("question text is required")
	}
	if len(q.Options) == 0 {
		return errors.New("at least one option is required")
	}
	if q.CorrectAnswer == "" {
		return errors.New("correct answer is required")
	}
	return nil
}

// Public strips the answer key and explanation before a question is shown to a learner.
func (q QuizQuestion) Public() QuizQuestion {
	q.CorrectAnswer = ""
	q.Explanation = ""
	return q
}

func itoa(i int) string { return strconv.Itoa(i) }
