package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuicards/internal/model"
)

func TestAddTopic(t *testing.T) {
	c := model.NewCollection()
	name, err := AddTopic(c, "  Math ")
	require.NoError(t, err)
	assert.Equal(t, "Math", name)
	cards, ok := c.Cards("Math")
	require.True(t, ok)
	assert.Empty(t, cards)

	_, err = AddTopic(c, "Math")
	assert.ErrorIs(t, err, model.ErrTopicExists)
	_, err = AddTopic(c, "   ")
	assert.ErrorIs(t, err, model.ErrEmptyField)
}

func TestDeleteTopic(t *testing.T) {
	c := model.NewCollection()
	c.Set("Math", nil)
	require.NoError(t, DeleteTopic(c, "Math"))
	assert.ErrorIs(t, DeleteTopic(c, "Math"), model.ErrTopicNotFound)
}

func TestAddCardNumbers(t *testing.T) {
	c := model.NewCollection()
	c.Set("Math", []model.Card{
		{ID: model.IntLabel(1), Number: model.StringLabel("7")},
		{ID: model.IntLabel(2), Number: model.StringLabel("x")},
	})
	card, err := AddCard(c, "Math", CardInput{Front: "f", Back: "b"})
	require.NoError(t, err)
	assert.Equal(t, model.IntLabel(8), card.Number)
	assert.False(t, card.ID.IsZero())
	assert.Equal(t, 0, card.Difficulty)
	assert.Nil(t, card.LastStudied)

	card, err = AddCard(c, "Math", CardInput{Number: "A1", Front: "f", Back: "b"})
	require.NoError(t, err)
	assert.Equal(t, model.StringLabel("A1"), card.Number)

	cards, _ := c.Cards("Math")
	assert.Len(t, cards, 4)
}

func TestAddCardValidation(t *testing.T) {
	c := model.NewCollection()
	c.Set("Math", nil)
	_, err := AddCard(c, "Math", CardInput{Front: " ", Back: "b"})
	assert.ErrorIs(t, err, model.ErrEmptyField)
	_, err = AddCard(c, "Math", CardInput{Front: "f"})
	assert.ErrorIs(t, err, model.ErrEmptyField)
	assert.Contains(t, err.Error(), "back")
	_, err = AddCard(c, "Nope", CardInput{Front: "f", Back: "b"})
	assert.ErrorIs(t, err, model.ErrTopicNotFound)
	cards, _ := c.Cards("Math")
	assert.Empty(t, cards)
}

func TestNextNumberEmpty(t *testing.T) {
	assert.Equal(t, 1, NextNumber(nil))
}

func TestEditCardKeepsMastery(t *testing.T) {
	c := model.NewCollection()
	c.Set("Math", []model.Card{{ID: model.IntLabel(5), Number: model.IntLabel(1), Front: "a", Back: "b", Difficulty: 4, CorrectCount: 2}})
	card, err := EditCard(c, "Math", model.IntLabel(5), CardInput{Front: "new", Back: "back"})
	require.NoError(t, err)
	assert.Equal(t, model.IntLabel(1), card.Number)
	assert.Equal(t, 4, card.Difficulty)
	assert.Equal(t, 2, card.CorrectCount)

	_, err = EditCard(c, "Math", model.IntLabel(6), CardInput{Front: "x", Back: "y"})
	assert.ErrorIs(t, err, model.ErrCardNotFound)
	_, err = EditCard(c, "Math", model.IntLabel(5), CardInput{Front: "", Back: "y"})
	assert.ErrorIs(t, err, model.ErrEmptyField)

	cards, _ := c.Cards("Math")
	assert.Equal(t, "new", cards[0].Front)
}

func TestReplaceAndDeleteCard(t *testing.T) {
	c := model.NewCollection()
	c.Set("Math", []model.Card{{ID: model.IntLabel(1)}, {ID: model.StringLabel("1")}})
	require.NoError(t, ReplaceCard(c, "Math", model.Card{ID: model.StringLabel("1"), Difficulty: 3}))
	cards, _ := c.Cards("Math")
	assert.Equal(t, 0, cards[0].Difficulty)
	assert.Equal(t, 3, cards[1].Difficulty)

	require.NoError(t, DeleteCard(c, "Math", model.IntLabel(1)))
	cards, _ = c.Cards("Math")
	require.Len(t, cards, 1)
	assert.Equal(t, model.StringLabel("1"), cards[0].ID)
	assert.ErrorIs(t, DeleteCard(c, "Math", model.IntLabel(1)), model.ErrCardNotFound)
}

func TestFindCard(t *testing.T) {
	c := model.NewCollection()
	c.Set("Math", []model.Card{{ID: model.IntLabel(17), Front: "q"}})
	card, err := FindCard(c, "Math", "17")
	require.NoError(t, err)
	assert.Equal(t, "q", card.Front)
	_, err = FindCard(c, "Math", "18")
	assert.ErrorIs(t, err, model.ErrCardNotFound)
}
