package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/pineforms/internal/config"
	"github.com/idilsaglam/pineforms/internal/logging"
	"github.com/idilsaglam/pineforms/internal/model"
	"github.com/idilsaglam/pineforms/internal/store/jsonstore"
	"github.com/idilsaglam/pineforms/internal/submit"
	"github.com/idilsaglam/pineforms/internal/ui"
)

// Exit codes: 0 ok, 1 error, 2 usage.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Annotation key marking commands whose logs go to stderr instead of the
// log file.
const logToStderr = "log-stderr"

// exitErr is a failure that was already reported to the user.
type exitErr struct{ code int }

func (e *exitErr) Error() string { return fmt.Sprintf("exit %d", e.code) }

func fail(code int, msg string) error {
	ui.Fail(msg)
	return &exitErr{code: code}
}

type usageErr struct{ msg string }

func (e *usageErr) Error() string { return e.msg }

// app carries root flags and everything resolved from them.
type app struct {
	configPath string
	endpoint   string
	theme      string
	verbose    bool

	cfg     *config.Config
	log     *zap.Logger
	client  *submit.Client
	history *jsonstore.Store
}

// Run executes the command line and returns an exit code.
func Run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return run(ctx, args)
}

func run(ctx context.Context, args []string) int {
	a := &app{}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(ui.Out)
	root.SetErr(ui.Err)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var ee *exitErr
	if errors.As(err, &ee) {
		return ee.code
	}
	// Anything else came from argument parsing.
	ui.Fail(err.Error())
	ui.Hint("run `pineforms help` for usage")
	return exitUsage
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pineforms",
		Short: "pineforms - send PinePods feedback and testing sign-ups from the terminal",
		Long: `pineforms fills in and submits the PinePods site forms.

Run "pineforms feedback" or "pineforms testing" for the interactive form, or
"pineforms send" to submit without a UI.`,
		Example: `  pineforms feedback
  pineforms send feedback-form --set feedback="great app" --check platform=ios
  pineforms send internal-testing-signup --set name="Ada" --set email=ada@example.com
  pineforms serve --addr localhost:8080`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return &exitErr{code: exitUsage}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageErr{msg: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ~/.pineforms/config.yaml)")
	pf.StringVar(&a.endpoint, "endpoint", "", "collection endpoint, overrides config and "+config.EnvEndpoint)
	pf.StringVar(&a.theme, "theme", "", "theme: classic, neon or mono")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log at DEBUG level")

	root.AddCommand(
		a.formCmd("feedback", "Open the feedback form", model.Feedback),
		a.formCmd("testing", "Sign up for internal testing", model.InternalTesting),
		a.sendCmd(),
		a.formsCmd(),
		a.historyCmd(),
		a.serveCmd(),
	)
	return root
}

// setup loads config and builds the logger, client and history store.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	path := a.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fail(exitError, "config: "+err.Error())
		}
		path = p
	}
	a.configPath = path

	cfg, err := config.Load(path)
	if err != nil {
		return fail(exitError, err.Error())
	}
	if a.endpoint != "" {
		cfg.Endpoint = a.endpoint
	}
	if a.theme != "" {
		cfg.Theme = a.theme
	}
	if err := cfg.Validate(); err != nil {
		return fail(exitUsage, "config: "+err.Error())
	}
	a.cfg = cfg
	ui.SetTheme(cfg.Theme)

	opt := logging.Options{Level: cfg.Logging.Level, Verbose: a.verbose, File: cfg.LogPath(path)}
	if cmd.Annotations[logToStderr] == "true" {
		opt.File = ""
	}
	a.log, err = logging.New(opt)
	if err != nil {
		return fail(exitError, err.Error())
	}

	a.client = submit.New(cfg.Endpoint,
		submit.WithTimeout(cfg.GetTimeout()),
		submit.WithLogger(a.log.Named("submit")))
	if cfg.History {
		a.history = jsonstore.New(config.HistoryPath(path))
	}
	a.log.Debug("configured",
		zap.String("config", path),
		zap.String("endpoint", cfg.Endpoint),
		zap.Duration("timeout", cfg.GetTimeout()))
	return nil
}
