package main

import (
	"fmt"
	"strings"

	"armoury/internal/app"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func init() {
	cmdSysProfile.AddCommand(cmdSysProfileList, cmdSysProfileShow, cmdSysProfileApply,
		cmdSysProfileExport, cmdSysProfileImport, cmdSysProfileDelete)
	rootCmd.AddCommand(cmdSysProfile)
}

var cmdSysProfile = &cobra.Command{
	Use:     "sysprofile",
	Aliases: []string{"sp"},
	Short:   "Manage system profiles (TDP, GPU, fans, lighting, battery)",
}

var cmdSysProfileList = &cobra.Command{
	Use:   "list",
	Short: "List built-in and custom system profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		l := ctrl.SystemProfiles()
		out := cmd.OutOrStdout()
		header(out, "System Profiles")
		row(out, "Built-in", strings.Join(l.Builtin, ", "))
		custom := "none"
		if len(l.Custom) > 0 {
			custom = strings.Join(l.Custom, ", ")
		}
		row(out, "Custom", custom)
		return nil
	},
}

var cmdSysProfileShow = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a system profile as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		p, err := ctrl.SystemProfile(args[0])
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return err
		}
		return enc.Close()
	},
}

var cmdSysProfileApply = &cobra.Command{
	Use:   "apply <name>",
	Short: "Apply every setting of a system profile",
	Long:  `Applies the profile step by step. A failing step does not stop the others; failed steps are listed and the command exits non-zero.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		timeout, err := daemonTimeout()
		if err != nil {
			return err
		}
		ctrl, err := controller()
		if err != nil {
			return err
		}
		var res app.SystemProfileResult
		err = withSpinner("Applying "+args[0]+"...", func() error {
			res, err = ctrl.ApplySystemProfile(cmd.Context(), app.SystemProfileParams{Name: args[0], Timeout: timeout})
			return err
		})
		if err != nil {
			return err
		}
		if !res.OK {
			fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render(res.Message))
			return fmt.Errorf("profile %s: %d step(s) failed", args[0], len(res.Failed))
		}
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(res.Message))
		return nil
	},
}

var cmdSysProfileExport = &cobra.Command{
	Use:   "export <name> <file>",
	Short: "Write a profile to a JSON or YAML file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		if err := ctrl.ExportSystemProfile(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", args[0], args[1])
		return nil
	},
}

var cmdSysProfileImport = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a profile from a JSON or YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		p, err := ctrl.ImportSystemProfile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported profile %s\n", p.Name)
		return nil
	},
}

var cmdSysProfileDelete = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a custom profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		if err := ctrl.DeleteSystemProfile(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %s\n", args[0])
		return nil
	},
}
