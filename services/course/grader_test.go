package courseService

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verve/apierr"
)

func TestGrade(t *testing.T) {
	questions := quiz("A", "B", "C")

	res, err := Grade(questions, map[int]string{0: "A", 2: "D"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalQuestions)
	assert.Equal(t, 1, res.CorrectCount)
	assert.Equal(t, 33, res.Score)
	require.Len(t, res.Results, 3)

	assert.True(t, res.Results[0].IsCorrect)
	assert.False(t, res.Results[1].IsCorrect)
	assert.Nil(t, res.Results[1].UserAnswer, "missing answer is reported as unanswered")
	assert.Equal(t, "C", res.Results[2].CorrectAnswer)
	require.NotNil(t, res.Results[2].UserAnswer)
	assert.Equal(t, "D", *res.Results[2].UserAnswer)
}

func TestGradeIsExactMatch(t *testing.T) {
	res, err := Grade(quiz("Paris"), map[int]string{0: "paris"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Score)
}

func TestGradeEmptyQuiz(t *testing.T) {
	_, err := Grade(nil, map[int]string{0: "A"})
	assert.ErrorIs(t, err, ErrEmptyQuiz)
	assert.Equal(t, apierr.KindNotFound, apierr.KindOf(err))
}

func TestPercentRoundsHalfUp(t *testing.T) {
	cases := []struct{ part, total, want int }{
		{0, 4, 0},
		{1, 8, 13},
		{2, 3, 67},
		{1, 3, 33},
		{13, 20, 65},
		{4, 4, 100},
		{1, 0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, percent(tc.part, tc.total), "%d/%d", tc.part, tc.total)
	}
}

func TestParseAnswers(t *testing.T) {
	answers, err := ParseAnswers(json.RawMessage(`{"0":"A","1":null,"x":"B","-1":"C","2":3,"3":true}`))
	require.NoError(t, err)
	assert.Equal(t, map[int]string{0: "A", 2: "3", 3: "true"}, answers)

	for _, raw := range []string{`["A","B"]`, `"A"`, ``, `{"0":{"a":1}}`, `{"0":`, `{"1":"A","01":"B"}`, `{"+2":"A"}`} {
		_, err := ParseAnswers(json.RawMessage(raw))
		assert.Equal(t, apierr.KindValidation, apierr.KindOf(err), "input %q", raw)
	}
}
