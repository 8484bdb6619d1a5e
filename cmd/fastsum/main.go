package main

import (
	"fmt"
	"log"
	"os"

	"github.com/noriah/fastsum"
	"github.com/noriah/fastsum/kernel"

	"github.com/integrii/flaggy"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppName is the app name
const AppName = "fastsum"

// AppDesc is the app description
const AppDesc = "Fast summation of radial kernels at nonequispaced nodes"

// AppSite is the app website
const AppSite = "https://github.com/noriah/fastsum"

var version = "unknown"

func main() {
	log.SetFlags(0)

	cfg := newZeroConfig()

	cmd := doFlags(&cfg)
	if cmd == "" {
		return
	}

	chk(cfg.Sanitize(), "invalid config")

	logger, err := newLogger(cfg.verbose)
	chk(err, "failed to initialize logger")
	defer logger.Sync()

	scfg := cfg.session()
	scfg.Logger = logger
	scfg.Output = os.Stdout

	session, err := fastsum.NewSession(scfg)
	chk(err, "failed to create session")
	defer session.Close()

	out := newNumberWriter(os.Stdout, cfg.precision)

	switch cmd {
	case "threads":
		res, err := session.Dispatch("get_num_threads", nil)
		chk(err, "failed to query threads")
		chk(out.Write("get_num_threads", res), "failed to write")

	case "run":
		if err := runScript(session, out, cfg.script); err != nil {
			session.Close()
			logger.Sync()
			log.Fatalln("script failed: ", err)
		}
	}
}

func runScript(session *fastsum.Session, out *numberWriter, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	steps, err := loadScript(f)
	if err != nil {
		return err
	}

	return newRunner(session, out).run(steps)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// doFlags parses the command line and returns the subcommand left to run,
// or "" when there is nothing more to do.
func doFlags(cfg *config) string {

	parser := flaggy.NewParser(AppName)
	parser.Description = AppDesc
	parser.AdditionalHelpPrepend = AppSite
	parser.Version = version

	runCmd := flaggy.NewSubcommand("run")
	runCmd.Description = "run a yaml command script"
	runCmd.AddPositionalValue(&cfg.script, "script", 1, true, "path of the script")

	parser.AttachSubcommand(runCmd, 1)

	listKernelsCmd := flaggy.Subcommand{
		Name:        "list-kernels",
		ShortName:   "lk",
		Description: "list all supported kernel functions",
	}

	parser.AttachSubcommand(&listKernelsCmd, 1)

	threadsCmd := flaggy.Subcommand{
		Name:        "threads",
		Description: "print the number of engine worker threads",
	}

	parser.AttachSubcommand(&threadsCmd, 1)

	parser.Int(&cfg.capacity, "c", "capacity", "number of plan slots")
	parser.Int(&cfg.threads, "t", "threads", "engine worker threads (0 for all cpus)")
	parser.Int(&cfg.precision, "p", "precision", "significant digits printed")
	parser.Bool(&cfg.noDomainCheck, "", "no-domain-check", "accept nodes outside the summation ball")
	parser.Bool(&cfg.noOrderCheck, "", "no-order-check", "do not reject out of order transforms")
	parser.Bool(&cfg.verbose, "v", "verbose", "log plan lifecycle events")

	chk(parser.Parse(), "failed to parse arguments")

	switch {
	case listKernelsCmd.Used:
		for _, name := range kernel.Names() {
			fmt.Printf("- %s\n", name)
		}

		return ""

	case threadsCmd.Used:
		return "threads"

	case runCmd.Used:
		return "run"
	}

	parser.ShowHelpAndExit("a subcommand is required")
	return ""
}

func chk(err error, wrap string) {
	if err != nil {
		log.Fatalln(wrap+": ", err)
	}
}
