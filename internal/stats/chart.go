package stats

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	barRune             = '█'
	minBarWidth         = 10
	terminalWidthBackup = 80
)

// BarWidthFor returns the bar area left after labels for a total line width.
// A non-positive total uses the terminal width.
func BarWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}
	// "YYYY-MM-DD │ " plus room for the count suffix.
	width := totalWidth - len(DateLayout) - 3 - 6
	if width < minBarWidth {
		return minBarWidth
	}
	return width
}

// RenderDaily prints one bar per day scaled to the busiest day.
func RenderDaily(w io.Writer, days []DayTotal, totalWidth int) error {
	if len(days) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Daily reviews"); err != nil {
		return err
	}
	for _, line := range dailyLines(days, BarWidthFor(totalWidth)) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func dailyLines(days []DayTotal, width int) []string {
	peak := 0
	for _, d := range days {
		peak = max(peak, d.Total)
	}
	lines := make([]string, 0, len(days))
	for _, d := range days {
		n := 0
		if peak > 0 {
			n = d.Total * width / peak
			if d.Total > 0 && n == 0 {
				n = 1
			}
		}
		bar := strings.Repeat(string(barRune), n)
		lines = append(lines, fmt.Sprintf("%s │ %s %d", d.Date, bar, d.Total))
	}
	return lines
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
