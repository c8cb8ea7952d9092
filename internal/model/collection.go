package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Collection maps topic names to their cards. Topic enumeration order is
// insertion order and is preserved through JSON encoding.
type Collection struct {
	names []string
	cards map[string][]Card
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{cards: map[string][]Card{}}
}

// Names returns topic names in enumeration order.
func (c *Collection) Names() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.names...)
}

// Len returns the number of topics.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// Has reports whether the topic exists.
func (c *Collection) Has(topic string) bool {
	if c == nil {
		return false
	}
	_, ok := c.cards[topic]
	return ok
}

// Cards returns a copy of the topic's cards.
func (c *Collection) Cards(topic string) ([]Card, bool) {
	if c == nil {
		return nil, false
	}
	cards, ok := c.cards[topic]
	if !ok {
		return nil, false
	}
	return cloneCards(cards), true
}

// Set replaces the topic's cards, appending the topic if it is new.
func (c *Collection) Set(topic string, cards []Card) {
	if c.cards == nil {
		c.cards = map[string][]Card{}
	}
	if _, ok := c.cards[topic]; !ok {
		c.names = append(c.names, topic)
	}
	if cards == nil {
		cards = []Card{}
	}
	c.cards[topic] = cloneCards(cards)
}

// Delete removes a topic. It reports whether the topic existed.
func (c *Collection) Delete(topic string) bool {
	if c == nil {
		return false
	}
	if _, ok := c.cards[topic]; !ok {
		return false
	}
	delete(c.cards, topic)
	for i, name := range c.names {
		if name == topic {
			c.names = append(c.names[:i:i], c.names[i+1:]...)
			break
		}
	}
	return true
}

// Clone returns a deep copy.
func (c *Collection) Clone() *Collection {
	out := NewCollection()
	if c == nil {
		return out
	}
	for _, name := range c.names {
		out.Set(name, c.cards[name])
	}
	return out
}

// MarshalJSON encodes the collection as an object keyed by topic name.
func (c *Collection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range c.Names() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		cards, err := json.Marshal(c.cards[name])
		if err != nil {
			return nil, err
		}
		buf.Write(cards)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object of topic name to card arrays, keeping key order.
func (c *Collection) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("topics must be a JSON object")
	}
	out := NewCollection()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		if out.Has(name) {
			return fmt.Errorf("duplicate topic %q", name)
		}
		var cards []Card
		if err := dec.Decode(&cards); err != nil {
			return fmt.Errorf("topic %q: %w", name, err)
		}
		out.Set(name, cards)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*c = *out
	return nil
}

func cloneCards(cards []Card) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	for i := range out {
		if out[i].LastStudied != nil {
			t := *out[i].LastStudied
			out[i].LastStudied = &t
		}
	}
	return out
}
