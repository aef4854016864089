// Package cli builds the xvcore cobra command tree: run a scenario, inspect
// its resulting process table, browse the scenario corpus, or serve the
// live dashboard. Grounded on proctor/cmd's command-tree shape (a root
// command, noun subcommand groups, table/JSON dual output via -o flags).
package cli

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "xvcore",
	Short: "Drive and inspect a simulated hybrid MLFQ/Stride process scheduler.",
	Run:   runRoot,
}

var runCmd = &cobra.Command{
	Use:   "run <scenario-file>",
	Short: "Replay a scenario file against a fresh process table to completion.",
	Run:   runRun,
}

var psCmd = &cobra.Command{
	Use:     "ps",
	Aliases: []string{"process"},
	Short:   "Inspect the process table captured by the last run.",
	Run:     runPs,
}

var psListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List every process row from the last snapshot.",
	Run:     runPsList,
}

var psGetCmd = &cobra.Command{
	Use:   "get [--pid or --name]",
	Short: "Retrieve one or more process rows from the last snapshot.",
	Run:   runPsGet,
}

var psTreeCmd = &cobra.Command{
	Use:   "tree <pid>",
	Short: "Print a process and its ancestor chain from the last snapshot.",
	Run:   runPsTree,
}

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect scenario corpus repositories.",
	Run:   runCorpus,
}

var corpusCommitsCmd = &cobra.Command{
	Use:   "commits <repo-url>",
	Short: "List commits in a scenario repository.",
	Run:   runCorpusCommits,
}

var corpusReleasesCmd = &cobra.Command{
	Use:   "releases <owner/repo>",
	Short: "List published GitHub releases for a scenario repository.",
	Run:   runCorpusReleases,
}

var serveCmd = &cobra.Command{
	Use:   "serve <scenario-file>",
	Short: "Run a scenario in the background and serve the live process dashboard.",
	Run:   runServe,
}

// SetupCLI constructs the cobra command hierarchy for the xvcore CLI.
func SetupCLI() *cobra.Command {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(psCmd)
	rootCmd.AddCommand(corpusCmd)
	rootCmd.AddCommand(serveCmd)

	psCmd.AddCommand(psListCmd)
	psCmd.AddCommand(psGetCmd)
	psCmd.AddCommand(psTreeCmd)

	corpusCmd.AddCommand(corpusCommitsCmd)
	corpusCmd.AddCommand(corpusReleasesCmd)

	return rootCmd
}
