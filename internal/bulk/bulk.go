// Package bulk parses pasted card lists.
//
// The accepted format is a sequence of blocks:
//
//	Tarjeta 1
//	Frente: question
//	Reverso:
//	answer line one
//	answer line two
//
// Header and field markers are case-insensitive.
package bulk

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/verte-zerg/tuicards/internal/deck"
	"github.com/verte-zerg/tuicards/internal/model"
)

const maxLineBytes = 1024 * 1024

var (
	headerRe = regexp.MustCompile(`(?i)^Tarjeta\s+\d+`)
	frontRe  = regexp.MustCompile(`(?i)^Frente:\s*`)
	backRe   = regexp.MustCompile(`(?i)^Reverso:\s*`)
)

// Parse reads cards from text. Numbers start at start and increase by one
// for every kept card.
func Parse(text string, start int) ([]model.Card, error) {
	return ParseReader(strings.NewReader(text), start)
}

// ParseReader is Parse over a reader.
func ParseReader(r io.Reader, start int) ([]model.Card, error) {
	p := parser{next: start}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		p.line(strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cards: %w", err)
	}
	p.flush()
	if len(p.cards) == 0 {
		return nil, model.Invalid("bulk", model.ErrNoCards)
	}
	return p.cards, nil
}

type parser struct {
	cards       []model.Card
	current     *model.Card
	readingBack bool
	next        int
}

func (p *parser) line(line string) {
	switch {
	case headerRe.MatchString(line):
		p.flush()
		p.current = &model.Card{}
		p.readingBack = false
	case frontRe.MatchString(line):
		if p.current != nil {
			p.current.Front = strings.TrimSpace(frontRe.ReplaceAllString(line, ""))
			p.readingBack = false
		}
	case backRe.MatchString(line):
		if p.current != nil {
			p.current.Back = strings.TrimSpace(backRe.ReplaceAllString(line, ""))
			p.readingBack = true
		}
	case line != "" && p.current != nil:
		if p.readingBack {
			p.current.Back = appendLine(p.current.Back, line)
		} else if p.current.Front != "" {
			p.current.Front = appendLine(p.current.Front, line)
		}
	}
}

// flush keeps the open block if both sides have text.
func (p *parser) flush() {
	c := p.current
	p.current = nil
	if c == nil || strings.TrimSpace(c.Front) == "" || strings.TrimSpace(c.Back) == "" {
		return
	}
	c.ID = deck.NewID()
	c.Number = model.IntLabel(p.next)
	p.next++
	p.cards = append(p.cards, *c)
}

func appendLine(s, line string) string {
	if s == "" {
		return line
	}
	return s + "\n" + line
}
