package cli

const (
	outputFlag   = "output"
	debugFlag    = "debug"
	pidFlag      = "pid"
	nameFlag     = "name"
	cpusFlag     = "cpus"
	maxTicksFlag = "max-ticks"
	tokenFlag    = "token"
	inMemoryFlag = "in-memory"
)

func init() {
	runCmd.Flags().IntP(cpusFlag, "c", 1, "Number of simulated CPUs (Scheduler.Loop goroutines).")
	runCmd.Flags().Int(maxTicksFlag, 0, "Stop after this many MLFQ ticks even if the table hasn't quiesced (0 means run to completion).")
	runCmd.Flags().StringP(outputFlag, "o", "table", "Output format [table (default), json].")
	runCmd.Flags().Bool(debugFlag, false, "Dump the full process table with go-spew instead of a table/JSON summary.")

	psListCmd.Flags().StringP(outputFlag, "o", "table", "Output format [table (default), json].")
	psListCmd.Flags().Bool(debugFlag, false, "Dump every process with go-spew instead of a table/JSON summary.")

	psGetCmd.Flags().StringP(outputFlag, "o", "table", "Output format [table (default), json].")
	psGetCmd.Flags().Bool(debugFlag, false, "Dump the matched process(es) with go-spew instead of a table/JSON summary.")
	psGetCmd.Flags().Int(pidFlag, 0, "Look up a single process by PID.")
	psGetCmd.Flags().String(nameFlag, "", "Look up every process sharing this name.")

	psTreeCmd.Flags().StringP(outputFlag, "o", "table", "Output format [table (default), json].")

	corpusCommitsCmd.Flags().Bool(inMemoryFlag, false, "Resolve the repository in memory instead of caching it to disk.")
	corpusReleasesCmd.Flags().String(tokenFlag, "", "GitHub token for private release listings.")

	serveCmd.Flags().IntP(cpusFlag, "c", 1, "Number of simulated CPUs driving the background run.")
}
