package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Topic", "Accuracy", "Correct"}
	rows := [][]string{
		{"Math", "97%", "12"},
		{"Geografía", "8%", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := FormatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Topic     Accuracy Correct" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Math           97%      12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Geografía       8%       3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := FormatTable([]string{"A", "B"}, [][]string{{"漢字", "x"}}, nil)
	if lines[0] != "A    B" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "漢字 x" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
}
