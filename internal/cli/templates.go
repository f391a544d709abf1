package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/gqa/internal/catalog"
)

// TemplateInfo describes one question type.
type TemplateInfo struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Group        string   `json:"group"`
	Placeholders []string `json:"placeholders"`
	English      string   `json:"english"`
}

// NewTemplatesCommand creates the templates command.
func NewTemplatesCommand(rootOpts *RootOptions) *cobra.Command {
	var prefixes []string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the question types",
		Long: `List the built-in question types with their ids, groups and question
text. Placeholders are shown by kind.

Example:
  gqa templates --type-prefix Station`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatter(rootOpts, cmd)
			cat := catalog.Default()

			templates := cat.Matching(prefixes)

			infos := make([]TemplateInfo, 0, len(templates))
			lines := make([]string, 0, len(templates))
			for _, t := range templates {
				info := TemplateInfo{
					ID:      t.ID,
					Name:    t.Name,
					Group:   t.Group,
					English: t.Explain(),
				}
				for _, k := range t.Placeholders {
					info.Placeholders = append(info.Placeholders, string(k))
				}
				infos = append(infos, info)
				lines = append(lines, fmt.Sprintf("%3d  %-30s %-12s %s", t.ID, t.Name, t.Group, info.English))
			}
			if len(infos) == 0 {
				return NewExitError(ExitCommandError, fmt.Sprintf("no question types match %v", prefixes))
			}
			return out.Success(infos, lines...)
		},
	}

	cmd.Flags().StringArrayVar(&prefixes, "type-prefix", nil, "only question types starting with this prefix (repeatable)")

	return cmd
}
