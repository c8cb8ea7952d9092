package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelKeepsOriginalToken(t *testing.T) {
	cases := []string{`"7"`, `7`, `1718000000123`, `"12b"`, `null`}
	for _, raw := range cases {
		var l Label
		require.NoError(t, json.Unmarshal([]byte(raw), &l), raw)
		out, err := json.Marshal(l)
		require.NoError(t, err)
		assert.Equal(t, raw, string(out))
	}
}

func TestLabelRejectsObjects(t *testing.T) {
	var l Label
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &l))
	assert.Error(t, json.Unmarshal([]byte(`true`), &l))
}

func TestLabelInt(t *testing.T) {
	n, ok := StringLabel("12b").Int()
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	n, ok = IntLabel(4).Int()
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	_, ok = StringLabel("abc").Int()
	assert.False(t, ok)
	_, ok = Label{}.Int()
	assert.False(t, ok)
}

func TestCardJSONUsesEpochMillis(t *testing.T) {
	at := time.UnixMilli(1718000000123)
	card := Card{
		ID:           IntLabel(1),
		Number:       StringLabel("3"),
		Front:        "q",
		Back:         "a\nb",
		Difficulty:   -1,
		LastStudied:  &at,
		CorrectCount: 1,
	}
	data, err := json.Marshal(card)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"number":"3","front":"q","back":"a\nb","difficulty":-1,"lastStudied":1718000000123,"correctCount":1,"incorrectCount":0}`, string(data))

	var back Card
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.LastStudied)
	assert.True(t, back.LastStudied.Equal(at))
	assert.Equal(t, card.ID, back.ID)
	assert.Equal(t, card.Number, back.Number)
}

func TestCardJSONNeverStudied(t *testing.T) {
	var card Card
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","number":1,"front":"f","back":"b","difficulty":0,"lastStudied":null,"correctCount":0,"incorrectCount":0}`), &card))
	assert.False(t, card.Studied())
}

func TestCollectionPreservesTopicOrder(t *testing.T) {
	raw := `{"Zeta":[],"Alpha":[{"id":1,"number":1,"front":"f","back":"b","difficulty":0,"lastStudied":null,"correctCount":0,"incorrectCount":0}],"Mid":[]}`
	var c Collection
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, c.Names())

	out, err := json.Marshal(&c)
	require.NoError(t, err)
	assert.Equal(t, raw, string(out))
}

func TestCollectionRejectsNonArrayTopic(t *testing.T) {
	var c Collection
	assert.Error(t, json.Unmarshal([]byte(`{"T":"nope"}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`[]`), &c))
}

func TestCollectionRejectsDuplicateTopic(t *testing.T) {
	var c Collection
	err := json.Unmarshal([]byte(`{"T":[],"U":[],"T":[]}`), &c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate topic "T"`)
}

func TestCollectionSetDeleteClone(t *testing.T) {
	c := NewCollection()
	c.Set("A", nil)
	c.Set("B", []Card{{Front: "x"}})
	c.Set("A", []Card{{Front: "y"}})
	assert.Equal(t, []string{"A", "B"}, c.Names())

	clone := c.Clone()
	clone.Set("C", nil)
	assert.False(t, c.Has("C"))

	cards, ok := c.Cards("A")
	require.True(t, ok)
	cards[0].Front = "changed"
	again, _ := c.Cards("A")
	assert.Equal(t, "y", again[0].Front)

	assert.True(t, c.Delete("A"))
	assert.False(t, c.Delete("A"))
	assert.Equal(t, []string{"B"}, c.Names())
}

func TestErrorsUnwrap(t *testing.T) {
	err := Invalid("start", ErrEmptyTopic)
	assert.ErrorIs(t, err, ErrEmptyTopic)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	perr := &PersistenceError{Key: "stats", Err: assert.AnError}
	assert.ErrorIs(t, perr, assert.AnError)
	assert.Contains(t, perr.Error(), "stats")
}
