package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type lesson struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"contentUrl" validate:"omitempty,url"`
}

type course struct {
	Title   string   `json:"title" validate:"required"`
	Tier    string   `json:"tier" validate:"omitempty,oneof=free premium"`
	Score   int      `json:"score" validate:"gte=0,lte=100"`
	Lessons []lesson `json:"lessons" validate:"dive"`
}

func TestStructValid(t *testing.T) {
	assert.Nil(t, Struct(&course{Title: "ok", Lessons: []lesson{{Title: "a"}}}))
}

func TestStructReportsJSONPaths(t *testing.T) {
	errs := Struct(&course{
		Tier:    "gold",
		Score:   101,
		Lessons: []lesson{{Title: "a"}, {URL: "nope"}},
	})

	assert.Equal(t, map[string]string{
		"title":                 "title is required!",
		"tier":                  "tier must be one of: free, premium!",
		"score":                 "score must be at most 100!",
		"lessons[1].title":      "title is required!",
		"lessons[1].contentUrl": "contentUrl must be a valid URL!",
	}, errs)
}
