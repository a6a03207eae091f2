package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/shawn-b/GuerrillaMailTester/internal/config"
	"github.com/shawn-b/GuerrillaMailTester/internal/output"
	"github.com/shawn-b/GuerrillaMailTester/internal/styles"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the run configuration",
	Long: `Manage gmtest configuration.

Examples:
  gmtest config init           # Write the built-in suite as a config file
  gmtest config init --force   # Overwrite an existing config file
  gmtest config show           # Show the effective configuration`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false,
		"Overwrite an existing config file")
}

// configPath returns --config when given, else the default location.
func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.Path()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if !configInitForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	if cfgFile != "" {
		err = config.SaveTo(path, config.Sample())
	} else {
		path, err = config.Save(config.Sample())
	}
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), output.PrintSuccess("Config written to "+path))
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return configErr
	}

	path, err := configPath()
	if err != nil {
		return err
	}

	cfg := config.Current()
	cases := cfg.Cases()

	if getOutput(cmd) == "json" {
		runs := make([]map[string]interface{}, 0, len(cases))
		for _, c := range cases {
			runs = append(runs, map[string]interface{}{
				"name":                c.Name,
				"site_name":           c.Config.SiteURL,
				"web_driver":          c.WebDriver,
				"email_subject":       c.Config.EmailSubject,
				"email_body":          c.Config.EmailBody,
				"wait_for_email_time": c.Config.WaitForEmail.Seconds(),
			})
		}
		return outputJSON(cmd.OutOrStdout(), map[string]interface{}{
			"configFile":  path,
			"webDriver":   config.GetWebDriver(),
			"headless":    config.GetHeadless(),
			"browserBin":  config.GetBrowserBin(),
			"controlURL":  config.GetControlURL(),
			"output":      config.GetDefaultOutput(),
			"runs":        runs,
			"builtInRuns": len(cfg.Runs) == 0,
		})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s %s\n\n", styles.LabelStyle.Render("Config file:"), path)
	fmt.Fprintf(w, "web_driver:  %s\n", config.GetWebDriver())
	fmt.Fprintf(w, "headless:    %t\n", config.GetHeadless())
	if bin := config.GetBrowserBin(); bin != "" {
		fmt.Fprintf(w, "bin:         %s\n", bin)
	}
	if u := config.GetControlURL(); u != "" {
		fmt.Fprintf(w, "control_url: %s\n", u)
	}
	fmt.Fprintf(w, "output:      %s\n\n", config.GetDefaultOutput())

	if len(cfg.Runs) == 0 {
		fmt.Fprintln(w, styles.MutedStyle.Render("No runs configured; the built-in suite is used."))
		fmt.Fprintln(w)
	}

	data, err := yaml.Marshal(runEntries(cases))
	if err != nil {
		return err
	}
	fmt.Fprint(w, string(data))
	return nil
}
