package cli

import (
	"fmt"

	"oer-catalog/internal/docs"

	"github.com/spf13/cobra"
)

type topicList []string

func (t topicList) TableHeader() []string { return []string{"Topic"} }

func (t topicList) TableRows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, topic := range t {
		rows = append(rows, []string{topic})
	}
	return rows
}

func newDocsCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show built-in documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if app.Format == "table" {
					return writeOut(cmd, app, topicList(docs.Topics()))
				}
				return writeOut(cmd, app, map[string]any{"topics": docs.Topics()})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `oer docs` to list topics)", topic))
			}

			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			return writeOut(cmd, app, map[string]any{"topic": topic, "markdown": body})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no JSON envelope)")

	return cmd
}
