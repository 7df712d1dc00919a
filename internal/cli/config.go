package cli

import (
	"strconv"
	"strings"

	"oer-catalog/internal/config"

	"github.com/spf13/cobra"
)

type configView struct {
	Path      string   `json:"path,omitempty"`
	Endpoints []string `json:"endpoints"`
	PageSize  int      `json:"pageSize"`
	StartPage int      `json:"startPage"`
	Loading   string   `json:"loading"`
	Timeout   string   `json:"timeout"`
	UserAgent string   `json:"userAgent,omitempty"`
	LogFile   string   `json:"logFile,omitempty"`
	Debug     bool     `json:"debug"`
	Title     string   `json:"title"`
	Subtitle  string   `json:"subtitle"`
}

func (c configView) TableHeader() []string { return []string{"Key", "Value"} }

func (c configView) TableRows() [][]string {
	return [][]string{
		{"path", c.Path},
		{"endpoints", strings.Join(c.Endpoints, "\n")},
		{"pageSize", strconv.Itoa(c.PageSize)},
		{"startPage", strconv.Itoa(c.StartPage)},
		{"loading", c.Loading},
		{"timeout", c.Timeout},
		{"userAgent", c.UserAgent},
		{"logFile", c.LogFile},
		{"debug", strconv.FormatBool(c.Debug)},
		{"title", c.Title},
		{"subtitle", c.Subtitle},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			path := app.ConfigPath
			if path == "" {
				path, _ = config.Path()
			}
			return writeOut(cmd, app, configView{
				Path:      path,
				Endpoints: cfg.Endpoints,
				PageSize:  cfg.PageSize,
				StartPage: cfg.StartPage,
				Loading:   cfg.Policy().String(),
				Timeout:   cfg.Timeout.String(),
				UserAgent: cfg.UserAgent,
				LogFile:   cfg.LogFile,
				Debug:     cfg.Debug,
				Title:     cfg.Title,
				Subtitle:  cfg.Subtitle,
			})
		},
	}
}
