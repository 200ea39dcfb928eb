// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/repodigest/repodigest/internal/config"
	"github.com/repodigest/repodigest/internal/discover"
	"github.com/repodigest/repodigest/internal/output"
	"github.com/repodigest/repodigest/internal/rules"
	"github.com/repodigest/repodigest/internal/services/clipboard"
	"github.com/repodigest/repodigest/internal/services/stream"
	"github.com/repodigest/repodigest/internal/tokenizer"
	"github.com/repodigest/repodigest/internal/utils"
)

const (
	outputFlagName       = "output"
	exclusionFlagName    = "e"
	noGitignoreFlagName  = "no-gitignore"
	tokensFlagName       = "tokens"
	modelFlagName        = "model"
	clipboardFlagName    = "clipboard"
	configFlagName       = "config"
	versionFlagName      = "version"
	versionTemplate      = "repodigest version: %s\n"
	rootUse              = "repodigest"
	rootShortDescription = "concatenate a codebase into a single text digest"
	rootLongDescription  = `repodigest walks the current working directory, filters files by a fixed
source-extension allow-list and exclusion rules (built-ins plus .gitignore),
skips binary files, and writes the surviving contents into one digest file
with path headers. The digest lands in <directory-name>_repo_digest.txt
unless --output says otherwise.`
	rootUsageExample = `  # Digest the current directory
  repodigest

  # Exclude generated code and skip .gitignore handling
  repodigest -e 'generated' -e '*.pb.go' --no-gitignore

  # Count tokens and copy the digest to the clipboard
  repodigest --tokens --clipboard`

	outputFlagDescription           = "digest output file path"
	exclusionFlagDescription        = "additional exclusion pattern"
	disableGitignoreFlagDescription = "do not read .gitignore"
	tokensFlagDescription           = "include a token count in the summary"
	modelFlagDescription            = "tokenizer model used for token counting"
	clipboardFlagDescription        = "copy the digest text to the system clipboard"
	configFlagDescription           = "configuration file path"
	versionFlagDescription          = "display application version"
	defaultTokenizerModelName       = "gpt-4o"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	createOutputErrorFormat     = "unable to create digest file %s: %w"
	closeOutputWarningFormat    = "closing digest file %s: %v"
	clipboardWarningFormat      = "copying digest to clipboard: %v"
	parentDirectoryPrefix       = ".."
)

// digestOptions stores flag values for the root command.
type digestOptions struct {
	outputPath        string
	exclusionPatterns []string
	disableGitignore  bool
	tokensEnabled     bool
	tokenModel        string
	copyToClipboard   bool
	configFilePath    string
}

// Execute runs the repodigest application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger)
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(logger *zap.Logger) *cobra.Command {
	var showVersion bool
	var options digestOptions
	options.tokenModel = defaultTokenizerModelName

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return runDigest(command, options, logger)
		},
	}

	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.Flags().StringVar(&options.outputPath, outputFlagName, "", outputFlagDescription)
	rootCommand.Flags().StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	rootCommand.Flags().BoolVar(&options.disableGitignore, noGitignoreFlagName, false, disableGitignoreFlagDescription)
	rootCommand.Flags().BoolVar(&options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	rootCommand.Flags().StringVar(&options.tokenModel, modelFlagName, defaultTokenizerModelName, modelFlagDescription)
	rootCommand.Flags().BoolVar(&options.copyToClipboard, clipboardFlagName, false, clipboardFlagDescription)
	rootCommand.Flags().StringVar(&options.configFilePath, configFlagName, "", configFlagDescription)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// runDigest resolves configuration, walks the working directory, and writes
// the digest file. Individual file failures are diagnostics, never fatal;
// only an unusable working directory or output file aborts the run.
func runDigest(command *cobra.Command, options digestOptions, logger *zap.Logger) (err error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}

	appConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.configFilePath,
	})
	if configurationError != nil {
		return configurationError
	}
	resolved := resolveEffectiveOptions(command, options, appConfiguration)

	outputPath := resolved.outputPath
	if outputPath == "" {
		outputPath = filepath.Base(workingDirectory) + utils.DigestFileSuffix
	}
	absoluteOutputPath := outputPath
	if !filepath.IsAbs(absoluteOutputPath) {
		absoluteOutputPath = filepath.Join(workingDirectory, outputPath)
	}

	exclusionPatterns, exclusionError := config.LoadExclusionPatterns(workingDirectory, resolved.exclusionPatterns, !resolved.disableGitignore)
	if exclusionError != nil {
		return exclusionError
	}
	ruleSet := rules.NewSet(exclusionPatterns)
	excludeOutputFile(ruleSet, workingDirectory, absoluteOutputPath)

	var tokenCounter tokenizer.Counter
	var tokenModel string
	if resolved.tokensEnabled {
		createdCounter, resolvedModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: resolved.tokenModel})
		if counterError != nil {
			return counterError
		}
		tokenCounter = createdCounter
		tokenModel = resolvedModel
	}

	modulePath := discover.DetectGoModulePath(workingDirectory)

	outputFile, createError := os.Create(absoluteOutputPath)
	if createError != nil {
		return fmt.Errorf(createOutputErrorFormat, absoluteOutputPath, createError)
	}
	defer func() {
		if closeError := outputFile.Close(); closeError != nil {
			logger.Warn(fmt.Sprintf(closeOutputWarningFormat, absoluteOutputPath, closeError))
			if err == nil {
				err = closeError
			}
		}
	}()

	writer := output.NewDigestWriter(outputFile, logger, modulePath, resolved.copyToClipboard, nil)

	producer := func(streamCtx context.Context, events chan<- stream.Event) error {
		digestStreamOptions := stream.DigestOptions{
			Root:         workingDirectory,
			Rules:        ruleSet,
			TokenCounter: tokenCounter,
			TokenModel:   tokenModel,
		}
		return stream.StreamDigest(streamCtx, digestStreamOptions, events)
	}

	consumer := func(event stream.Event) error {
		return writer.Handle(event)
	}

	if dispatchError := dispatchStream(context.Background(), producer, consumer); dispatchError != nil {
		return dispatchError
	}
	if flushError := writer.Flush(); flushError != nil {
		return flushError
	}

	if summary, summaryAvailable := writer.Summary(); summaryAvailable {
		printSummaryLine(output.FormatSummaryLine(summary, outputPath))
	}

	if resolved.copyToClipboard {
		if copyError := clipboard.NewService().Copy(writer.Text()); copyError != nil {
			logger.Warn(fmt.Sprintf(clipboardWarningFormat, copyError))
		}
	}

	return nil
}

// resolveEffectiveOptions overlays configuration file defaults onto flags the
// user did not set explicitly. Flags always win over configuration.
func resolveEffectiveOptions(command *cobra.Command, options digestOptions, appConfiguration config.ApplicationConfiguration) digestOptions {
	resolved := options
	flagSet := command.Flags()

	if !flagSet.Changed(outputFlagName) && appConfiguration.Output != "" {
		resolved.outputPath = appConfiguration.Output
	}
	if !flagSet.Changed(noGitignoreFlagName) && appConfiguration.Paths.UseGitignore != nil {
		resolved.disableGitignore = !*appConfiguration.Paths.UseGitignore
	}
	if !flagSet.Changed(tokensFlagName) && appConfiguration.Tokens.Enabled != nil {
		resolved.tokensEnabled = *appConfiguration.Tokens.Enabled
	}
	if !flagSet.Changed(modelFlagName) && appConfiguration.Tokens.Model != "" {
		resolved.tokenModel = appConfiguration.Tokens.Model
	}
	if !flagSet.Changed(clipboardFlagName) && appConfiguration.Clipboard != nil {
		resolved.copyToClipboard = *appConfiguration.Clipboard
	}
	resolved.exclusionPatterns = append(append([]string{}, appConfiguration.Paths.Exclude...), options.exclusionPatterns...)

	return resolved
}

// excludeOutputFile adds the digest file to the rule set when it lives inside
// the tree being walked, so a run never ingests its own partial output.
func excludeOutputFile(ruleSet *rules.Set, workingDirectory string, absoluteOutputPath string) {
	relativeOutputPath := utils.RelativePathOrSelf(absoluteOutputPath, workingDirectory)
	if relativeOutputPath == "." || filepath.IsAbs(relativeOutputPath) {
		return
	}
	if strings.HasPrefix(relativeOutputPath, parentDirectoryPrefix) {
		return
	}
	ruleSet.Add(relativeOutputPath)
}

func printSummaryLine(summaryLine string) {
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		_, _ = color.New(color.FgGreen, color.Bold).Fprintln(os.Stdout, summaryLine)
		return
	}
	fmt.Fprintln(os.Stdout, summaryLine)
}

// dispatchStream connects the digest producer to the consumer over a channel,
// keeping event handling ordered while the walk stays sequential.
func dispatchStream(
	ctx context.Context,
	produce func(context.Context, chan<- stream.Event) error,
	consume func(stream.Event) error,
) error {
	group, streamCtx := errgroup.WithContext(ctx)
	events := make(chan stream.Event)

	group.Go(func() error {
		defer close(events)
		return produce(streamCtx, events)
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if consumeError := consume(event); consumeError != nil {
					return consumeError
				}
			}
		}
	})

	if waitError := group.Wait(); waitError != nil && !errors.Is(waitError, context.Canceled) {
		return waitError
	}
	return nil
}
