package cli

import (
	"errors"
	"fmt"

	"github.com/kittengames/kittengames/internal/cloak"
	"github.com/spf13/cobra"
)

var (
	cloakIcon  string
	cloakTitle string
	cloakJSON  bool
)

func init() {
	cloakShowCmd.Flags().BoolVar(&cloakJSON, "json", false, "Output in JSON format")
	for _, c := range []*cobra.Command{cloakSetCmd, cloakPreviewCmd} {
		c.Flags().StringVar(&cloakIcon, "icon", "", "Icon image URL or any site URL (its favicon is used)")
		c.Flags().StringVar(&cloakTitle, "title", "", "Tab title")
	}

	cloakCmd.AddCommand(cloakShowCmd)
	cloakCmd.AddCommand(cloakSetCmd)
	cloakCmd.AddCommand(cloakRemoveCmd)
	cloakCmd.AddCommand(cloakPreviewCmd)
	rootCmd.AddCommand(cloakCmd)
}

var cloakCmd = &cobra.Command{
	Use:   "cloak",
	Short: "Disguise the tab title and icon",
	Long: `Override the title and icon the browser tab shows.

An icon may be a direct image URL (.ico, .png, .svg, .jpg, .jpeg, .gif) or any
site URL, in which case the site's favicon is used. Icons are checked for
reachability before they are saved.`,
}

var cloakShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active cloak",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.OutOrStdout(), nil)
		if err != nil {
			return err
		}
		defer a.Close()

		id := a.cloak.Get()
		if cloakJSON {
			return printJSON(cmd, id)
		}
		if id.IsZero() {
			fmt.Fprintln(cmd.OutOrStdout(), "No cloak set.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Title: %s\nIcon:  %s\n", orDefault(id.PageTitle), orDefault(id.IconURL))
		return nil
	},
}

var cloakSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the tab title and/or icon",
	Long: `Set the tab title and/or icon. Only the flags given are changed; pass an
empty value to reset one field.

  kittengames cloak set --title "Classes" --icon classroom.google.com`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var p cloak.Partial
		if cmd.Flags().Changed("icon") {
			p.IconURL = cloak.String(cloakIcon)
		}
		if cmd.Flags().Changed("title") {
			p.PageTitle = cloak.String(cloakTitle)
		}
		if p.IconURL == nil && p.PageTitle == nil {
			return errors.New("nothing to change: pass --icon and/or --title")
		}

		a, err := openApp(cmd.OutOrStdout(), nil)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.cloak.Update(cmd.Context(), p); err != nil {
			return err
		}
		id := a.cloak.Get()
		fmt.Fprintf(cmd.OutOrStdout(), "Cloak saved.\nTitle: %s\nIcon:  %s\n", orDefault(id.PageTitle), orDefault(id.IconURL))
		return nil
	},
}

var cloakRemoveCmd = &cobra.Command{
	Use:     "remove",
	Aliases: []string{"rm"},
	Short:   "Remove the cloak and restore the default title and icon",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.OutOrStdout(), nil)
		if err != nil {
			return err
		}
		defer a.Close()

		return a.cloak.Remove()
	},
}

var cloakPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show what a cloak would look like without saving it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.OutOrStdout(), nil)
		if err != nil {
			return err
		}
		defer a.Close()

		p := a.cloak.Preview(cmd.Context(), cloakIcon, cloakTitle)
		if cloakIcon != "" && !p.Reachable {
			fmt.Fprintln(cmd.ErrOrStderr(), "Icon is not reachable; the default icon would show.")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Title: %s\nIcon:  %s\n", p.Title, orDefault(p.Icon))
		return nil
	},
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}
