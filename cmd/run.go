package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tempolabs/drover/accounts"
	"github.com/tempolabs/drover/agent"
	"github.com/tempolabs/drover/assetstore"
	"github.com/tempolabs/drover/chain"
	"github.com/tempolabs/drover/cmd/exitcodes"
	"github.com/tempolabs/drover/config"
	"github.com/tempolabs/drover/logging"
	"github.com/tempolabs/drover/logging/colors"
	"github.com/tempolabs/drover/utils"
)

// runCmd represents the command provider for running agents.
var runCmd = &cobra.Command{
	Use:               "run",
	Short:             "Starts the wallet agents",
	Long:              `Starts the wallet agents`,
	Args:              cmdValidateRunArgs,
	ValidArgsFunction: cmdValidRunArgs,
	RunE:              cmdRunRun,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// cmdValidRunArgs will return which flags and sub-commands are valid for dynamic completion for the run command.
func cmdValidRunArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	// Gather a list of flags that are available to be used in the current command but have not been used yet
	var unusedFlags []string
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			// When adding a flag to a command, include the "--" prefix to indicate that it is a flag
			// and not a positional argument.
			unusedFlags = append(unusedFlags, "--"+flag.Name)
		}
	})
	return unusedFlags, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	// Add all the flags allowed for the run command
	addRunFlags()

	// Add the run command and its associated flags to the root command
	rootCmd.AddCommand(runCmd)
}

// cmdValidateRunArgs makes sure that there are no positional arguments provided to the run command.
func cmdValidateRunArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		err = errors.New("run does not accept any positional arguments, only flags and their associated values")
		cmdLogger.Error("Failed to validate args to the run command", err)
		return err
	}
	return nil
}

// cmdRunRun executes the CLI run command: it resolves the project configuration, connects to the endpoint, loads the
// selected wallets, and runs the orchestrator until completion or interruption.
func cmdRunRun(cmd *cobra.Command, args []string) error {
	var projectConfig *config.ProjectConfig

	// Check to see if --config flag was used and store the value of --config flag
	configFlagUsed := cmd.Flags().Changed("config")
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		cmdLogger.Error("Failed to run the run command", err)
		return err
	}

	// If --config was not used, look for the default config file in the current work directory
	if !configFlagUsed {
		workingDirectory, wdErr := os.Getwd()
		if wdErr != nil {
			cmdLogger.Error("Failed to run the run command", wdErr)
			return wdErr
		}
		configPath = filepath.Join(workingDirectory, DefaultProjectConfigFilename)
	}

	// Read the configuration file if it exists; a missing default file falls back to defaults so the run can be
	// driven entirely by flags.
	_, existenceError := os.Stat(configPath)
	if existenceError == nil {
		cmdLogger.Info("Reading the configuration file at: ", colors.Bold, configPath, colors.Reset)
		projectConfig, err = config.ReadProjectConfigFromFile(configPath)
		if err != nil {
			cmdLogger.Error("Failed to run the run command", err)
			return err
		}
	} else if configFlagUsed {
		// If the --config flag was used and we couldn't find the file, we'll throw an error
		err = errors.Errorf("could not find the config file at %s", configPath)
		cmdLogger.Error("Failed to run the run command", err)
		return err
	} else {
		projectConfig = config.GetDefaultProjectConfig()
	}

	// Update the project configuration given whatever flags were set using the CLI
	if err = updateProjectConfigWithRunFlags(cmd, projectConfig); err != nil {
		cmdLogger.Error("Failed to run the run command", err)
		return err
	}
	if err = projectConfig.Validate(); err != nil {
		cmdLogger.Error("Invalid configuration", err)
		return err
	}

	// Stand up the global logger for the run.
	if projectConfig.Logging.NoColor {
		colors.DisableColor()
	}
	logging.GlobalLogger = projectConfig.Logging.NewLogger()
	logging.GlobalLogger.AddWriter(os.Stdout, logging.UNSTRUCTURED, !projectConfig.Logging.NoColor)
	if projectConfig.Logging.LogDirectory != "" {
		logFile, fileErr := utils.CreateFile(projectConfig.Logging.LogDirectory, DefaultLogFilename)
		if fileErr != nil {
			cmdLogger.Error("Failed to create the log file", fileErr)
			return fileErr
		}
		defer logFile.Close()
		logging.GlobalLogger.AddWriter(logFile, logging.UNSTRUCTURED, false)
	}
	runLogger := logging.GlobalLogger.NewSubLogger("module", logging.CLI_SERVICE)

	// Load the wallet pool and apply the selection expression.
	pool, err := accounts.LoadFromFile(projectConfig.Wallets.KeyFile)
	if err != nil {
		runLogger.Error("Failed to load wallets", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	indices, err := accounts.ParseSelection(projectConfig.Wallets.Selection, len(pool))
	if err != nil {
		runLogger.Error("Failed to parse the wallet selection", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	selected := make([]*accounts.Account, len(indices))
	for i, index := range indices {
		selected[i] = pool[index]
	}

	// Cancel the run on keyboard interrupts.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Connect to the endpoint.
	client, err := chain.NewClient(ctx, projectConfig.Network.RPCURL)
	if err != nil {
		runLogger.Error("Failed to connect to the RPC endpoint", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	defer client.Close()

	// Open the asset database recording each wallet's creations.
	store, err := assetstore.Open(projectConfig.Storage.AssetDatabase)
	if err != nil {
		runLogger.Error("Failed to open the asset database", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	defer store.Close()

	orchestrator, err := agent.NewOrchestrator(projectConfig, client, store, selected, logging.GlobalLogger.NewSubLogger("module", logging.AGENT_SERVICE))
	if err != nil {
		runLogger.Error("Failed to construct the orchestrator", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	subscribeActivityReporter(orchestrator, runLogger)
	if err = orchestrator.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		runLogger.Error("Run concluded with an error", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeRunError)
	}
	runLogger.Info("Run concluded")
	return nil
}

// subscribeActivityReporter attaches console reporting to the agent event stream so every chosen activity and its
// outcome is surfaced as it happens.
func subscribeActivityReporter(orchestrator *agent.Orchestrator, logger *logging.Logger) {
	orchestrator.Events.ActivityStarted.Subscribe(func(event agent.ActivityStartedEvent) {
		logger.Info("Starting activity", logging.StructuredLogInfo{
			"wallet":   utils.TruncateString(event.Wallet.String(), 10),
			"activity": string(event.Kind),
			"reason":   event.Reason,
		})
	})
	orchestrator.Events.ActivityConcluded.Subscribe(func(event agent.ActivityConcludedEvent) {
		logInfo := logging.StructuredLogInfo{
			"wallet":   utils.TruncateString(event.Wallet.String(), 10),
			"activity": string(event.Kind),
			"result":   event.Outcome.String(),
		}
		if event.Outcome.Failed() {
			logger.Warn("Activity failed", logInfo)
			return
		}
		logger.Info("Activity concluded", logInfo)
	})
}
