package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	app, err := wireApp()
	if err != nil {
		rootCmd := newBareRootCmd()
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	return newRootCmdWithApp(app)
}

func newRootCmdWithApp(app *app) *cobra.Command {
	rootCmd := newBareRootCmd()
	rootCmd.AddCommand(
		newVersionCmd(),
		newStatusCmd(app),
		newWatchCmd(app),
	)

	return rootCmd
}

func newBareRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "quotabar",
		Short:         "quotabar: terminal monitor for rolling usage windows",
		Long:          "quotabar polls the account usage script for the 5-hour and 7-day rate-limit windows and shows a color-coded status display in the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
}
