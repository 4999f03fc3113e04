package cmd

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tempolabs/drover/config"
	"github.com/tempolabs/drover/logging/colors"
)

// initCmd represents the command provider for init.
var initCmd = &cobra.Command{
	Use:           "init",
	Short:         "Initializes a project configuration",
	Long:          `Initializes a project configuration`,
	Args:          cobra.NoArgs,
	RunE:          cmdRunInit,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Output path for the config file
	initCmd.Flags().String("out", "", "output path for the new project configuration file")

	// Add the init command and its associated flags to the root command
	rootCmd.AddCommand(initCmd)
}

// cmdRunInit executes the CLI init command, writing a default project configuration for the operator to fill in.
func cmdRunInit(cmd *cobra.Command, args []string) error {
	// Check to see if --out flag was used and store the value of --out flag
	outputFlagUsed := cmd.Flags().Changed("out")
	outputPath, err := cmd.Flags().GetString("out")
	if err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return err
	}

	// If we weren't provided an output path, we use our standard output name in the working directory
	if !outputFlagUsed {
		workingDirectory, wdErr := os.Getwd()
		if wdErr != nil {
			cmdLogger.Error("Failed to run the init command", wdErr)
			return wdErr
		}
		outputPath = filepath.Join(workingDirectory, DefaultProjectConfigFilename)
	}

	// Refuse to clobber an existing configuration.
	if _, err = os.Stat(outputPath); err == nil {
		err = errors.Errorf("a configuration file already exists at %s", outputPath)
		cmdLogger.Error("Failed to run the init command", err)
		return err
	}

	// Write out the default config.
	projectConfig := config.GetDefaultProjectConfig()
	if err = projectConfig.WriteToFile(outputPath); err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return err
	}

	cmdLogger.Info("Project configuration successfully created: ", colors.Bold, outputPath, colors.Reset)
	cmdLogger.Info("Set the RPC endpoint, contract addresses, and key file before running")
	return nil
}
