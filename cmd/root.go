package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"srcmerge/pkg/logging"
	"srcmerge/pkg/merge"
	"srcmerge/pkg/version"
)

// NewRootCmd builds the srcmerge command. The logger is created once flags
// are parsed and handed back through onLogger so the caller can sync it.
func NewRootCmd(onLogger func(*zap.Logger)) *cobra.Command {
	var opts Options

	rootCmd := &cobra.Command{
		Use:   "srcmerge [flags] <src_dir> <output_file>",
		Short: "Merge the source files of a directory tree into a single file",
		Long: `srcmerge concatenates every file with a selected extension below src_dir
into output_file. Each file is preceded by a comment header naming its path
relative to src_dir, so the merged file stays traceable to its sources.

Directories named node_modules, .git, build, cache, out and artifacts are
skipped unless --no-default-excludes is given. Settings may also be read from
.srcmerge.yml in src_dir; flags take precedence.`,
		Example: `  # Merge Solidity contracts
  srcmerge src/ merged.sol

  # Merge TypeScript files
  srcmerge src/ merged.ts -e ts tsx

  # Exclude specific directories by name or pattern
  srcmerge src/ output.sol --exclude test mocks '*Test'`,
		Args:          usageArgs(cobra.ExactArgs(2)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.Setup(opts.Verbose, version.Name, version.Get().Version)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			if onLogger != nil {
				onLogger(logger)
			}
			return runMerge(cmd.Context(), cmd, args[0], args[1], opts, logger)
		},
	}

	flags := rootCmd.Flags()
	flags.StringSliceVarP(&opts.Extensions, "extensions", "e", merge.DefaultExtensions(), "file extensions to include, without leading dot")
	flags.StringSliceVar(&opts.Exclude, "exclude", nil, "directory name patterns to exclude (e.g. mocks, '*Test')")
	flags.BoolVar(&opts.NoDefaultExcludes, "no-default-excludes", false, "do not skip the built-in excluded directories")
	flags.StringVar(&opts.CommentPrefix, "comment-prefix", merge.DefaultCommentPrefix, "comment marker used for headers in the merged file")
	flags.BoolVar(&opts.Tree, "tree", false, "list the merged files as a tree at the top of the output")
	flags.BoolVar(&opts.Raw, "raw", false, "copy files that are not valid UTF-8 verbatim instead of failing")
	flags.BoolVar(&opts.Lock, "lock", false, "hold an advisory lock on <output_file>.lock while writing")
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file (default: .srcmerge.yml in src_dir)")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", false, "do not print a summary")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func runMerge(ctx context.Context, cmd *cobra.Command, srcDir, output string, opts Options, logger *zap.Logger) error {
	fc, cfgPath, err := loadFileConfig(opts.ConfigPath, srcDir)
	if err != nil {
		logger.Error("Failed to load config file", zap.String("path", opts.ConfigPath), zap.Error(err))
		return err
	}
	if cfgPath != "" {
		logger.Debug("Loaded config file", zap.String("path", cfgPath))
	}

	changed := func(name string) bool { return cmd.Flags().Changed(name) }
	scan, wopts, err := ResolveOptions(srcDir, output, opts, changed, fc)
	if err != nil {
		return err
	}

	res, err := merge.Run(ctx, scan, wopts, logger)
	if err != nil {
		return err
	}

	if !opts.Quiet {
		printSummary(cmd.OutOrStdout(), scan, res)
	}
	return nil
}

// Run executes the command line in args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logger := zap.NewNop()
	rootCmd := NewRootCmd(func(l *zap.Logger) { logger = l })
	rootCmd.SetArgs(expandMultiValueFlags(args))
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	syncLogger(logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		code := exitCode(err)
		if isUsageError(err) {
			fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", rootCmd.Name())
		}
		return code
	}
	return ExitOK
}

// Execute runs the root command with the process arguments.
func Execute(ctx context.Context) int {
	return Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}
