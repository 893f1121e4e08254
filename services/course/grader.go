package courseService

import (
	"bytes"
	"encoding/json"
	"strconv"

	"verve/apierr"
	courseModels "verve/models/course"
)

var ErrEmptyQuiz = apierr.NotFound("No questions found for this quiz.")

type QuestionResult struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	UserAnswer    *string  `json:"userAnswer"`
	IsCorrect     bool     `json:"isCorrect"`
	Explanation   string   `json:"explanation,omitempty"`
}

type GradeResult struct {
	Score          int              `json:"score"`
	CorrectCount   int              `json:"correctCount"`
	TotalQuestions int              `json:"totalQuestions"`
	Results        []QuestionResult `json:"detailedResults"`
}

// Grade scores answers against the embedded answer key. Missing answers count as
// incorrect. The score is correct/total*100 rounded half-up.
func Grade(questions []courseModels.QuizQuestion, answers map[int]string) (*GradeResult, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyQuiz
	}

	res := &GradeResult{
		TotalQuestions: len(questions),
		Results:        make([]QuestionResult, 0, len(questions)),
	}
	for i, q := range questions {
		qr := QuestionResult{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		}
		if ans, ok := answers[i]; ok {
			a := ans
			qr.UserAnswer = &a
			qr.IsCorrect = ans == q.CorrectAnswer
		}
		if qr.IsCorrect {
			res.CorrectCount++
		}
		res.Results = append(res.Results, qr)
	}
	res.Score = percent(res.CorrectCount, res.TotalQuestions)
	return res, nil
}

// percent computes round(part/total*100) with half-up rounding in integer arithmetic.
func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (part*200 + total) / (2 * total)
}

// ParseAnswers decodes a sparse {"index": answer} object. Keys that are not
// non-negative integers are ignored, zero-padded or signed indexes are rejected, and
// null values are treated as unanswered.
func ParseAnswers(raw json.RawMessage) (map[int]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, apierr.Validation("Answers must be an object keyed by question index.")
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return nil, apierr.Validation("Answers must be an object keyed by question index.")
	}

	answers := make(map[int]string, len(decoded))
	for key, value := range decoded {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 {
			continue
		}
		// "01" and "+1" would collide with "1"
		if strconv.Itoa(idx) != key {
			return nil, apierr.Validation("Answer key " + key + " is not a canonical question index.")
		}
		switch v := value.(type) {
		case nil:
		case string:
			answers[idx] = v
		case float64:
			answers[idx] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			answers[idx] = strconv.FormatBool(v)
		default:
			return nil, apierr.Validation("Answer for question " + key + " must be a string.")
		}
	}
	return answers, nil
}
