package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuicards/internal/deck"
	"github.com/verte-zerg/tuicards/internal/model"
	"github.com/verte-zerg/tuicards/internal/stats"
	"github.com/verte-zerg/tuicards/internal/transfer"
)

const frontPreviewWidth = 40

var (
	cardNumber  string
	cardFront   string
	cardBack    string
	cardHardest int

	importMerge bool
)

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List topics with card counts and accuracy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer env.close()
			if err := stats.RenderSummary(cmd.OutOrStdout(), env.app.Report(defaultStatsDays)); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}
}

func newTopicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topic",
		Short: "Add or remove topics",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Create an empty topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer env.close()
			name, err := env.app.AddTopic(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printf(cmd.OutOrStdout(), "Added topic %q\n", name)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a topic and all its cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer env.close()
			if err := env.app.DeleteTopic(cmd.Context(), args[0]); err != nil {
				return err
			}
			return printf(cmd.OutOrStdout(), "Deleted topic %q\n", args[0])
		},
	})
	return cmd
}

func newCardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage cards in a topic",
	}

	add := &cobra.Command{
		Use:   "add <topic>",
		Short: "Add a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer env.close()
			card, err := env.app.AddCard(cmd.Context(), args[0], cardInput())
			if err != nil {
				return err
			}
			return printf(cmd.OutOrStdout(), "Added card #%s (id %s)\n", card.Number, card.ID)
		},
	}
	addCardFlags(add)

	edit := &cobra.Command{
		Use:   "edit <topic> <id>",
		Short: "Change a card's text, keeping its progress",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer env.close()
			current, err := deck.FindCard(env.app.Topics(), args[0], args[1])
			if err != nil {
				return err
			}
			in := cardInput()
			if !cmd.Flags().Changed("front") {
				in.Front = current.Front
			}
			if !cmd.Flags().Changed("back") {
				in.Back = current.Back
			}
			card, err := env.app.EditCard(cmd.Context(), args[0], args[1], in)
			if err != nil {
				return err
			}
			return printf(cmd.OutOrStdout(), "Updated card #%s\n", card.Number)
		},
	}
	addCardFlags(edit)

	rm := &cobra.Command{
		Use:   "rm <topic> <id>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer env.close()
			if err := env.app.DeleteCard(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			return printf(cmd.OutOrStdout(), "Deleted card %s\n", args[1])
		},
	}

	list := &cobra.Command{
		Use:   "list <topic>",
		Short: "List cards in a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer env.close()
			cards, ok := env.app.Topics().Cards(args[0])
			if !ok {
				return model.Invalid("list cards", model.ErrTopicNotFound)
			}
			if cmd.Flags().Changed("hardest") {
				cards = stats.HardestCards(cards, cardHardest)
			}
			return writeCardTable(cmd.OutOrStdout(), cards)
		},
	}
	list.Flags().IntVar(&cardHardest, "hardest", 0, "only show the N hardest cards (0 for all difficult cards)")

	cmd.AddCommand(add, edit, rm, list)
	return cmd
}

func addCardFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cardNumber, "number", "", "card number (default: next free number)")
	cmd.Flags().StringVar(&cardFront, "front", "", "question side")
	cmd.Flags().StringVar(&cardBack, "back", "", "answer side")
}

func cardInput() deck.CardInput {
	return deck.CardInput{Number: cardNumber, Front: cardFront, Back: cardBack}
}

func writeCardTable(w io.Writer, cards []model.Card) error {
	if len(cards) == 0 {
		return printf(w, "No cards found.\n")
	}
	headers := []string{"ID", "No.", "Front", "Difficulty", "Correct", "Incorrect", "Last studied"}
	rows := make([][]string, 0, len(cards))
	for _, c := range cards {
		last := "never"
		if c.Studied() {
			last = c.LastStudied.Local().Format("2006-01-02")
		}
		rows = append(rows, []string{
			c.ID.String(),
			c.Number.String(),
			preview(c.Front),
			fmt.Sprintf("%d", c.Difficulty),
			fmt.Sprintf("%d", c.CorrectCount),
			fmt.Sprintf("%d", c.IncorrectCount),
			last,
		})
	}
	for _, line := range stats.FormatTable(headers, rows, map[int]bool{3: true, 4: true, 5: true}) {
		if err := printf(w, "%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= frontPreviewWidth {
		return s
	}
	return string(runes[:frontPreviewWidth-3]) + "..."
}

func newBulkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bulk <topic> <file|->",
		Short: "Add cards from Tarjeta/Frente/Reverso text",
		Long: `Add cards from text in this format:

  Tarjeta 1
  Frente: question
  Reverso:
  answer

Use - to read from stdin.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closeFn, err := openInput(cmd, args[1])
			if err != nil {
				return err
			}
			defer closeQuietly(closeFn)

			env, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer env.close()
			cards, err := env.app.AddBulk(cmd.Context(), args[0], r)
			if len(cards) == 0 {
				return err
			}
			if perr := printf(cmd.OutOrStdout(), "Added %d card(s), numbers %s-%s\n",
				len(cards), cards[0].Number, cards[len(cards)-1].Number); perr != nil {
				return perr
			}
			return err
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write all topics and stats to a JSON file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer env.close()
			data, err := env.app.Export()
			if err != nil {
				return err
			}
			path := transfer.FileName(env.app.Now())
			if len(args) == 1 {
				path = args[0]
			}
			if path == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			return printf(cmd.ErrOrStderr(), "Exported to %s\n", path)
		},
	}
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Load topics and stats from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closeFn, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeQuietly(closeFn)
			data, err := io.ReadAll(r)
			if err != nil {
				return fmt.Errorf("failed to read import: %w", err)
			}

			env, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer env.close()
			policy := transfer.Replace
			if importMerge {
				policy = transfer.Merge
			}
			err = env.app.Import(cmd.Context(), data, policy)
			var ferr *model.ImportFormatError
			if errors.As(err, &ferr) {
				return err
			}
			if perr := printf(cmd.OutOrStdout(), "Imported %s (%s)\n", args[0], policy); perr != nil {
				return perr
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&importMerge, "merge", false, "append to existing topics instead of replacing everything")
	return cmd
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func() error, error) {
	if path == "-" {
		return cmd.InOrStdin(), func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, f.Close, nil
}

func printf(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
