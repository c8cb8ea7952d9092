package transfer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuicards/internal/model"
)

func studiedAt(ms int64) *time.Time {
	t := time.UnixMilli(ms)
	return &t
}

func sample() (*model.Collection, model.StudyStats) {
	topics := model.NewCollection()
	topics.Set("Math", []model.Card{
		{ID: model.IntLabel(1712000000000), Number: model.IntLabel(1), Front: "2+2", Back: "4", Difficulty: -1, LastStudied: studiedAt(1712000000123), CorrectCount: 1},
		{ID: model.StringLabel("b7"), Number: model.StringLabel("A2"), Front: "3*3", Back: "9", Difficulty: 4, IncorrectCount: 2},
	})
	topics.Set("Art", nil)
	st := model.StudyStats{"2025-03-01": {"Math": {Correct: 1, Incorrect: 2, Total: 3}}}
	return topics, st
}

func TestExportReplaceRoundTrip(t *testing.T) {
	topics, st := sample()
	data, err := Export(topics, st)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"topics\": {")

	doc, err := Decode(data)
	require.NoError(t, err)
	gotTopics, gotStats := Import(model.NewCollection(), model.StudyStats{"x": nil}, doc, Replace)

	assert.Equal(t, st, gotStats)
	assert.Equal(t, topics.Names(), gotTopics.Names())
	again, err := Export(gotTopics, gotStats)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))

	cards, _ := gotTopics.Cards("Math")
	assert.True(t, cards[0].LastStudied.Equal(time.UnixMilli(1712000000123)))
	assert.Equal(t, model.IntLabel(1712000000000), cards[0].ID)
	assert.Equal(t, model.StringLabel("A2"), cards[1].Number)
}

func TestMergeConcatenatesCards(t *testing.T) {
	existing := model.NewCollection()
	existing.Set("T", []model.Card{{ID: model.StringLabel("B"), Front: "b", Back: "b"}})
	existing.Set("Only", nil)

	doc, err := Decode([]byte(`{"topics":{"T":[{"id":"A","front":"a","back":"a","difficulty":0,"lastStudied":null,"correctCount":0,"incorrectCount":0}],"New":[]},"stats":{"2025-03-01":{"T":{"correct":1,"incorrect":0,"total":1}}}}`))
	require.NoError(t, err)

	base := model.StudyStats{"2025-03-01": {"T": {Correct: 2, Incorrect: 1, Total: 3}}}
	merged, st := Import(existing, base, doc, Merge)

	cards, _ := merged.Cards("T")
	require.Len(t, cards, 2)
	assert.Equal(t, model.StringLabel("B"), cards[0].ID)
	assert.Equal(t, model.StringLabel("A"), cards[1].ID)
	assert.Equal(t, []string{"T", "Only", "New"}, merged.Names())
	assert.Equal(t, model.Tally{Correct: 3, Incorrect: 1, Total: 4}, st["2025-03-01"]["T"])

	original, _ := existing.Cards("T")
	assert.Len(t, original, 1, "existing collection must not change")
	assert.Equal(t, 3, base["2025-03-01"]["T"].Total)
}

func TestDecodeBareTopics(t *testing.T) {
	doc, err := Decode([]byte(`{"Math":[{"id":1,"number":1,"front":"q","back":"a"}]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Math"}, doc.Topics.Names())
	assert.Empty(t, doc.Stats)
}

func TestDecodeAssignsMissingIDs(t *testing.T) {
	doc, err := Decode([]byte(`{"topics":{"Math":[{"front":"q","back":"a"}]}}`))
	require.NoError(t, err)
	cards, _ := doc.Topics.Cards("Math")
	require.Len(t, cards, 1)
	assert.False(t, cards[0].ID.IsZero())
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":       `{"topics":`,
		"array":          `[1,2]`,
		"string":         `"hello"`,
		"empty":          ``,
		"null topics":    `{"topics":null}`,
		"topic not list": `{"topics":{"Math":"x"}}`,
		"bad difficulty": `{"topics":{"Math":[{"front":"q","back":"a","difficulty":11}]}}`,
		"negative count": `{"topics":{"Math":[{"front":"q","back":"a","correctCount":-1}]}}`,
		"bad date":       `{"topics":{},"stats":{"yesterday":{}}}`,
		"bad tally":      `{"topics":{},"stats":{"2025-01-01":{"Math":{"correct":1,"incorrect":0,"total":3}}}}`,
		"bad id":         `{"topics":{"Math":[{"id":{"x":1},"front":"q","back":"a"}]}}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(payload))
			var ferr *model.ImportFormatError
			assert.ErrorAs(t, err, &ferr)
		})
	}
}

func TestFileName(t *testing.T) {
	day := time.Date(2025, 3, 9, 23, 0, 0, 0, time.Local)
	assert.Equal(t, "tarjetas-estudio-2025-03-09.json", FileName(day))
}

func TestExportEmpty(t *testing.T) {
	data, err := Export(nil, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"topics":{},"stats":{}}`, string(data))
}

func TestMergeIntoSelfKeepsIDsUnique(t *testing.T) {
	topics, st := sample()
	data, err := Export(topics, st)
	require.NoError(t, err)
	doc, err := Decode(data)
	require.NoError(t, err)

	merged, _ := Import(topics, st, doc, Merge)
	cards, _ := merged.Cards("Math")
	require.Len(t, cards, 4)
	assert.Equal(t, model.IntLabel(1712000000000), cards[0].ID)
	assert.Equal(t, model.StringLabel("b7"), cards[1].ID)

	ids := map[string]bool{}
	for _, c := range cards {
		assert.False(t, ids[c.ID.String()], "duplicate id %s", c.ID)
		ids[c.ID.String()] = true
	}
	assert.Equal(t, cards[0].Front, cards[2].Front)
	assert.Equal(t, cards[0].CorrectCount, cards[2].CorrectCount)
}

func TestDecodeReassignsDuplicateIDs(t *testing.T) {
	doc, err := Decode([]byte(`{"T":[{"id":"a","front":"1","back":"1"},{"id":"a","front":"2","back":"2"},{"front":"3","back":"3"}]}`))
	require.NoError(t, err)
	cards, _ := doc.Topics.Cards("T")
	require.Len(t, cards, 3)
	assert.Equal(t, model.StringLabel("a"), cards[0].ID)
	assert.NotEqual(t, "a", cards[1].ID.String())
	assert.False(t, cards[2].ID.IsZero())
	assert.NotEqual(t, cards[1].ID, cards[2].ID)
}

func TestDecodeRejectsDuplicateTopic(t *testing.T) {
	_, err := Decode([]byte(`{"topics":{"T":[],"T":[{"id":"a","front":"q","back":"a"}]}}`))
	var ferr *model.ImportFormatError
	require.ErrorAs(t, err, &ferr)
	assert.Contains(t, err.Error(), "duplicate topic")
}
