package cli

import (
	"errors"
	"fmt"
	"strconv"

	"oer-catalog/internal/catalog"
	"oer-catalog/internal/controller"
	"oer-catalog/internal/publish"
	"oer-catalog/internal/tui"

	"github.com/spf13/cobra"
)

// pageResult is the printable snapshot of one settled page.
type pageResult struct {
	Page  int                       `json:"page"`
	Total int                       `json:"total"`
	Error string                    `json:"error,omitempty"`
	Items []catalog.ResourceSummary `json:"items"`
}

func (p pageResult) TableHeader() []string {
	return []string{"ID", "Title", catalog.KeyInstitutions, catalog.KeyAuthors, "Link"}
}

func (p pageResult) TableRows() [][]string {
	rows := make([][]string, 0, len(p.Items))
	for _, it := range p.Items {
		rows = append(rows, []string{
			it.ID,
			it.Title,
			cellValue(it, catalog.KeyInstitutions),
			cellValue(it, catalog.KeyAuthors),
			it.Link,
		})
	}
	return rows
}

func cellValue(it catalog.ResourceSummary, key string) string {
	s, ok := it.Slot(key)
	switch {
	case !ok || s.URL == "":
		return "-"
	case !s.Resolved:
		return "…"
	default:
		return s.Value
	}
}

// writeMarkdown prints the page as markdown; --pretty renders it for the
// terminal.
func writeMarkdown(cmd *cobra.Command, app *App, p publish.Page) error {
	md := publish.RenderPageMarkdown(p)
	if app.PrettyJSON {
		md = tui.RenderMarkdown(md, 100) + "\n"
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), md)
	return err
}

func newPageCmd(app *App) *cobra.Command {
	var enrich bool

	cmd := &cobra.Command{
		Use:   "page [n]",
		Short: "Fetch one page of resources and print it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page := 0
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return writeErr(cmd, fmt.Errorf("invalid page %q: must be a positive integer", args[0]))
				}
				page = n
			}

			s, err := openSession(cmd, app, page)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			ctx := cmd.Context()
			if err := controller.Settle(ctx, s.ctl, s.ctl.Start()); err != nil {
				return writeErr(cmd, err)
			}
			if enrich {
				if err := controller.Settle(ctx, s.ctl, s.ctl.EnrichAll()); err != nil {
					return writeErr(cmd, err)
				}
			}

			st := s.ctl.State()
			res := pageResult{Page: st.Page, Total: st.Total, Error: st.Error, Items: st.Items}
			if res.Items == nil {
				res.Items = []catalog.ResourceSummary{}
			}
			if app.Format == "markdown" {
				err = writeMarkdown(cmd, app, publish.Page{
					Title:  s.cfg.Title,
					Number: res.Page,
					Total:  res.Total,
					Error:  res.Error,
					Items:  res.Items,
				})
			} else {
				err = writeOut(cmd, app, res)
			}
			if err != nil {
				return err
			}
			if st.Error != "" {
				return writeErr(cmd, errors.New(st.Error))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&enrich, "enrich", false, "Resolve institutions and authors for every resource")

	return cmd
}
