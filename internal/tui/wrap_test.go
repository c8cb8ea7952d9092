package tui

import (
	"reflect"
	"testing"
)

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	got := wrapText("one two three", 7)
	want := []string{"one two", "three"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wrapText = %q, want %q", got, want)
	}
}

func TestWrapTextKeepsNewlines(t *testing.T) {
	got := wrapText("first\nsecond line", 20)
	want := []string{"first", "second line"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wrapText = %q, want %q", got, want)
	}
}

func TestWrapTextSplitsLongWords(t *testing.T) {
	got := wrapText("abcdefgh", 3)
	want := []string{"abc", "def", "gh"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wrapText = %q, want %q", got, want)
	}
}

func TestWrapTextWideRunes(t *testing.T) {
	got := wrapText("日本語 テキスト", 6)
	want := []string{"日本語", "テキス", "ト"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wrapText = %q, want %q", got, want)
	}
}

func TestWrapTextNoWidth(t *testing.T) {
	got := wrapText("a b\nc", 0)
	want := []string{"a b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wrapText = %q, want %q", got, want)
	}
}
