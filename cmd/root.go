package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bh",
		Short:         "Blackhole CLI (bh): null-route IPs through the blackhole portal",
		Long:          "bh automates the internal blackhole route portal: open null routes for batches of IP addresses, search existing blackhole entries, and update or close them, all concurrently over authenticated portal sessions.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newCreateCmd(app),
		newSearchCmd(app),
		newUpdateCmd(app),
	)

	return rootCmd
}
