package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/pineforms/internal/devserver"
	"github.com/idilsaglam/pineforms/internal/form"
	"github.com/idilsaglam/pineforms/internal/model"
	"github.com/idilsaglam/pineforms/internal/store/jsonstore"
	"github.com/idilsaglam/pineforms/internal/tui"
	"github.com/idilsaglam/pineforms/internal/ui"
)

// -------------- interactive forms ----------------

func (a *app) formCmd(use, short string, def model.Definition) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := form.NewSession(def)
			status, err := tui.Run(cmd.Context(), session, a.client,
				tui.WithLogger(a.log.Named("tui")),
				tui.WithResultHook(func(st form.Status, err error) { a.record(def.ID, st) }))
			if err != nil {
				return fail(exitError, "tui: "+err.Error())
			}
			switch status.Kind {
			case form.StatusSuccess:
				ui.OK(status.Message)
			case form.StatusError:
				return fail(exitError, status.Message)
			}
			return nil
		},
	}
}

// -------------- headless send ----------------

func (a *app) sendCmd() *cobra.Command {
	var sets, checks []string
	cmd := &cobra.Command{
		Use:   "send <form-id>",
		Short: "Submit a form without the interactive UI",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &usageErr{msg: "usage: pineforms send <form-id> [--set field=value] [--check field=option]"}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			def, ok := model.Lookup(args[0])
			if !ok {
				ui.Fail("unknown form: " + args[0])
				ui.Hint("run `pineforms forms` to see valid form ids")
				return &exitErr{code: exitUsage}
			}
			session := form.NewSession(def)
			for _, c := range checks {
				name, opt, ok := strings.Cut(c, "=")
				if !ok {
					return fail(exitUsage, "--check wants field=option, got "+c)
				}
				if err := session.Update(form.Check(name, opt, true)); err != nil {
					return fail(exitUsage, err.Error())
				}
			}
			for _, s := range sets {
				name, val, ok := strings.Cut(s, "=")
				if !ok {
					return fail(exitUsage, "--set wants field=value, got "+s)
				}
				if err := session.Update(form.SetText(name, val)); err != nil {
					return fail(exitUsage, err.Error())
				}
			}

			status, err := session.Submit(cmd.Context(), a.client)
			if errs := form.FieldErrors(err); len(errs) > 0 {
				ui.Fail("form is incomplete")
				ui.Fpanel(ui.Err, fieldErrorLines(def, errs))
				return &exitErr{code: exitUsage}
			}
			a.record(def.ID, status)
			if status.Kind != form.StatusSuccess {
				return fail(exitError, status.Message)
			}
			ui.OK(status.Message)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "set a field: name=value (repeatable)")
	cmd.Flags().StringArrayVar(&checks, "check", nil, "pick a checkbox option: field=option (repeatable)")
	return cmd
}

func fieldErrorLines(def model.Definition, errs map[string]string) []string {
	var lines []string
	for _, f := range def.Fields {
		if msg, bad := errs[f.Name]; bad {
			lines = append(lines, fmt.Sprintf("%s %s", ui.C(ui.Current().Error, f.Name), msg))
		}
	}
	return lines
}

// -------------- catalog & history ----------------

func (a *app) formsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forms",
		Short: "List the forms and their fields",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := ui.Current()
			var lines []string
			for i, def := range model.Forms() {
				if i > 0 {
					lines = append(lines, "")
				}
				lines = append(lines, ui.C(t.Title, def.ID)+"  "+ui.C(t.Muted, def.Title))
				for _, f := range def.Fields {
					mark := " "
					if f.Required {
						mark = ui.C(t.Error, t.SymRequired)
					}
					line := fmt.Sprintf("  %s %-10s %s", mark, f.Name, ui.C(t.Muted, f.Kind.String()))
					if len(f.Options) > 0 {
						opts := make([]string, 0, len(f.Options))
						for _, o := range f.Options {
							opts = append(opts, o.Value)
						}
						line += " " + ui.C(t.Accent, strings.Join(opts, "|"))
					}
					lines = append(lines, line)
				}
			}
			ui.Panel(lines)
			return nil
		},
	}
}

func (a *app) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List past submissions",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.history == nil {
				return fail(exitError, "history is disabled in the config")
			}
			receipts, err := a.history.Load()
			if err != nil {
				return fail(exitError, fmt.Sprintf("load %s: %v", a.history.Path(), err))
			}
			t := ui.Current()
			if len(receipts) == 0 {
				ui.Panel([]string{ui.C(t.Muted, "no submissions yet")})
				return nil
			}
			sent := 0
			lines := make([]string, 0, len(receipts)+2)
			for _, r := range receipts {
				mark := ui.C(t.Success, t.SymOK)
				if r.OK {
					sent++
				} else {
					mark = ui.C(t.Error, t.SymFail)
				}
				line := fmt.Sprintf("%s %s  %-24s", mark, r.SentAt.Local().Format("2006-01-02 15:04"), r.FormID)
				if !r.OK && r.Message != "" {
					line += " " + ui.C(t.Muted, r.Message)
				}
				lines = append(lines, line)
			}
			lines = append(lines, "", ui.C(t.Muted, ui.ProgressBar(sent, len(receipts), 20)+" delivered"))
			ui.Panel(lines)
			return nil
		},
	}
}

// record appends a receipt for a finished submission. Failures to write are
// logged, never shown: the submission itself already happened.
func (a *app) record(formID string, st form.Status) {
	if a.history == nil || st.Kind == form.StatusNone {
		return
	}
	r := jsonstore.NewReceipt(formID, st.Kind == form.StatusSuccess, st.Message)
	if err := a.history.Append(r); err != nil {
		a.log.Warn("history append failed", zap.String("path", a.history.Path()), zap.Error(err))
	}
}

// -------------- dev collector ----------------

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:         "serve",
		Short:       "Run a local collection endpoint for development",
		Args:        noArgs,
		Annotations: map[string]string{logToStderr: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := devserver.New(a.log.Named("devserver"))
			ui.OK("collecting on http://" + addr + devserver.SubmitPath)
			if err := srv.ListenAndServe(cmd.Context(), addr); err != nil {
				return fail(exitError, "serve: "+err.Error())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", devserver.DefaultAddr, "listen address")
	return cmd
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return &usageErr{msg: fmt.Sprintf("%s takes no arguments, got %q", cmd.Name(), args)}
	}
	return nil
}
