// Package deck edits topics and cards in a collection.
package deck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/verte-zerg/tuicards/internal/model"
)

// CardInput is the user-editable part of a card.
type CardInput struct {
	Number string
	Front  string `validate:"required"`
	Back   string `validate:"required"`
}

var inputValidator = validator.New(validator.WithRequiredStructEnabled())

// NewID returns a fresh opaque card id.
func NewID() model.Label {
	return model.StringLabel(uuid.NewString())
}

// NextNumber returns one more than the highest numeric card number.
func NextNumber(cards []model.Card) int {
	highest := 0
	for _, c := range cards {
		if n, ok := c.Number.Int(); ok && n > highest {
			highest = n
		}
	}
	return highest + 1
}

// AddTopic creates an empty topic and returns its trimmed name.
func AddTopic(c *model.Collection, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", model.Invalid("add topic", model.ErrEmptyField)
	}
	if c.Has(name) {
		return "", model.Invalid("add topic", model.ErrTopicExists)
	}
	c.Set(name, nil)
	return name, nil
}

// DeleteTopic removes a topic and all its cards.
func DeleteTopic(c *model.Collection, name string) error {
	if !c.Delete(name) {
		return model.Invalid("delete topic", model.ErrTopicNotFound)
	}
	return nil
}

// AddCard appends a new card to topic. An empty number continues the
// topic's numbering.
func AddCard(c *model.Collection, topic string, in CardInput) (model.Card, error) {
	cards, ok := c.Cards(topic)
	if !ok {
		return model.Card{}, model.Invalid("add card", model.ErrTopicNotFound)
	}
	if err := validate("add card", in); err != nil {
		return model.Card{}, err
	}
	card := model.Card{
		ID:     NewID(),
		Number: numberFor(in.Number, cards),
		Front:  in.Front,
		Back:   in.Back,
	}
	c.Set(topic, append(cards, card))
	return card, nil
}

// AppendCards adds already-built cards to the end of topic.
func AppendCards(c *model.Collection, topic string, added []model.Card) error {
	cards, ok := c.Cards(topic)
	if !ok {
		return model.Invalid("append cards", model.ErrTopicNotFound)
	}
	c.Set(topic, append(cards, added...))
	return nil
}

// EditCard replaces a card's number and text, keeping its id and mastery state.
func EditCard(c *model.Collection, topic string, id model.Label, in CardInput) (model.Card, error) {
	if err := validate("edit card", in); err != nil {
		return model.Card{}, err
	}
	cards, idx, err := find(c, topic, id, "edit card")
	if err != nil {
		return model.Card{}, err
	}
	card := cards[idx]
	if strings.TrimSpace(in.Number) != "" {
		card.Number = model.StringLabel(in.Number)
	}
	card.Front = in.Front
	card.Back = in.Back
	cards[idx] = card
	c.Set(topic, cards)
	return card, nil
}

// ReplaceCard stores card over the card with the same id.
func ReplaceCard(c *model.Collection, topic string, card model.Card) error {
	cards, idx, err := find(c, topic, card.ID, "replace card")
	if err != nil {
		return err
	}
	cards[idx] = card
	c.Set(topic, cards)
	return nil
}

// DeleteCard removes the card with id from topic.
func DeleteCard(c *model.Collection, topic string, id model.Label) error {
	cards, idx, err := find(c, topic, id, "delete card")
	if err != nil {
		return err
	}
	c.Set(topic, append(cards[:idx], cards[idx+1:]...))
	return nil
}

// FindCard looks a card up by the text form of its id.
func FindCard(c *model.Collection, topic, id string) (model.Card, error) {
	cards, ok := c.Cards(topic)
	if !ok {
		return model.Card{}, model.Invalid("find card", model.ErrTopicNotFound)
	}
	for _, card := range cards {
		if card.ID.String() == id {
			return card, nil
		}
	}
	return model.Card{}, model.Invalid("find card", model.ErrCardNotFound)
}

func find(c *model.Collection, topic string, id model.Label, op string) ([]model.Card, int, error) {
	cards, ok := c.Cards(topic)
	if !ok {
		return nil, 0, model.Invalid(op, model.ErrTopicNotFound)
	}
	for i, card := range cards {
		if card.ID == id {
			return cards, i, nil
		}
	}
	return nil, 0, model.Invalid(op, model.ErrCardNotFound)
}

func validate(op string, in CardInput) error {
	in.Front = strings.TrimSpace(in.Front)
	in.Back = strings.TrimSpace(in.Back)
	if err := inputValidator.Struct(in); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			return model.Invalid(op, fmt.Errorf("%w: %s", model.ErrEmptyField, strings.ToLower(fields[0].Field())))
		}
		return model.Invalid(op, err)
	}
	return nil
}

func numberFor(number string, cards []model.Card) model.Label {
	if strings.TrimSpace(number) == "" {
		return model.IntLabel(NextNumber(cards))
	}
	return model.StringLabel(number)
}
