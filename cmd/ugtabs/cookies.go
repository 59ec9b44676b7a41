package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/handiism/ugtabs/internal/config"
	"github.com/handiism/ugtabs/internal/download"
)

const cookieInstructions = `How to export your cookies:
  1. Log in to ultimate-guitar.com in your browser
  2. Open the developer tools (F12), Application/Storage tab, Cookies
  3. Select https://www.ultimate-guitar.com
  4. Copy the values of the cookies listed below into %s
     (a browser extension export, an array of {"name", "value"}, works too)`

func newCookiesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cookies",
		Short: "Create and check the session cookies file",
	}
	cmd.AddCommand(
		newCookiesTemplateCommand(a),
		newCookiesCheckCommand(a),
		newCookiesEnterCommand(a),
	)
	return cmd
}

func newCookiesTemplateCommand(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write a cookies file with placeholder values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.settings.CookiesFile
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}

			if err := config.SaveCookies(path, config.CookieTemplate()); err != nil {
				return err
			}
			a.printer.Success("Template written to " + path)
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), cookieInstructions+"\n\n", path)
			printCookieFields(cmd)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing cookies file")
	return cmd
}

func newCookiesCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Analyze the cookies file and ask the site who it thinks you are",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}

			cookies := client.Session().Cookies()
			a.printer.Info(fmt.Sprintf("Cookies (%d): %s", len(cookies), strings.Join(config.CookieNames(cookies), ", ")))
			if unified, ok := cookies["ug_unified_id"]; ok {
				a.printer.Info("ug_unified_id: " + unified)
			}

			manager, err := download.NewManager(a.settings, client, a.logger, a.printer.Event)
			if err != nil {
				return err
			}
			status, err := manager.CheckSession(cmd.Context())
			if err != nil {
				return fmt.Errorf("home page request failed: %w", err)
			}

			if !status.Authenticated() {
				a.printer.Error(fmt.Sprintf("Not authenticated (%s: %s)", download.UnifiedIDHeader, status.UnifiedID))
				a.printer.Warning("Export fresh cookies from a logged-in browser session")
				return errIncomplete
			}
			a.printer.Success(fmt.Sprintf("Authenticated (%s: %s)", download.UnifiedIDHeader, status.UnifiedID))
			return nil
		},
	}
}

func newCookiesEnterCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "enter",
		Short: "Type cookie values interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.settings.CookiesFile
			fmt.Fprintf(cmd.OutOrStdout(), cookieInstructions+"\n\n", path)

			cookies := make(map[string]string)
			for _, field := range config.CookieFields {
				var value string
				prompt := &survey.Password{
					Message: field.Name + ":",
					Help:    field.Description,
				}
				if err := survey.AskOne(prompt, &value); err != nil {
					return promptErr(err)
				}
				if value = strings.TrimSpace(value); value != "" {
					cookies[field.Name] = value
				}
			}

			if len(cookies) == 0 {
				a.printer.Warning("No cookies entered, nothing written")
				return nil
			}
			for _, issue := range config.AnalyzeCookies(cookies) {
				a.printer.Warning(issue)
			}

			if _, err := os.Stat(path); err == nil {
				overwrite := false
				if err := survey.AskOne(&survey.Confirm{Message: "Overwrite " + path + "?"}, &overwrite); err != nil {
					return promptErr(err)
				}
				if !overwrite {
					return nil
				}
			}

			if err := config.SaveCookies(path, cookies); err != nil {
				return err
			}
			a.printer.Success(fmt.Sprintf("Saved %d cookies to %s", len(cookies), path))
			a.printer.Info("Verify them with: ugtabs cookies check")
			return nil
		},
	}
}

func printCookieFields(cmd *cobra.Command) {
	for _, field := range config.CookieFields {
		marker := " "
		if field.Critical {
			marker = "*"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %s %-18s %s\n", marker, field.Name, field.Description)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "\n  * required for authentication")
}

func promptErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errInterrupted
	}
	return err
}
