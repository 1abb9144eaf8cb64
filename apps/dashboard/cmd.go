package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/AkmalxonWeBd/education-platform/core"
	"github.com/AkmalxonWeBd/education-platform/core/school"
	"github.com/AkmalxonWeBd/education-platform/core/session"
	"github.com/AkmalxonWeBd/education-platform/core/table"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp        = errors.New("help provided")
	errNotTerminal = errors.New("browse needs an interactive terminal")
)

type commandLine struct {
	conf  *core.Config
	store session.Store
	svc   *school.Service
	out   io.Writer
	isTTY func() bool
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	root.SetOut(cli.out)
	root.SetErr(cli.out)
	if len(args) < 2 {
		_ = root.Help()
		return errHelp
	}
	root.SetArgs(args[1:])
	err := root.ExecuteContext(context.Background())
	if err != nil && strings.HasPrefix(err.Error(), "unknown command") {
		_ = root.Help()
		return errHelp
	}
	return err
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dashboard",
		Short:         "School dashboard client",
		Long:          "Browse and manage the users, groups, lessons, grades and courses of the education platform.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		cli.loginCmd(),
		cli.logoutCmd(),
		cli.whoamiCmd(),
		cli.resetPasswordCmd(),
		cli.listCmd(),
		cli.createCmd(),
		cli.updateCmd(),
		cli.deleteCmd(),
		cli.groupCmd(),
		cli.attendanceCmd(),
		cli.statsCmd(),
		cli.browseCmd(),
	)
	return root
}

func (cli *commandLine) styles() table.Styles {
	if cli.isTTY != nil && cli.isTTY() {
		return table.DefaultStyles()
	}
	return table.PlainStyles()
}

func (cli *commandLine) pageSize() int {
	if cli.conf == nil || cli.conf.PageSize <= 0 {
		return table.DefaultPageSize
	}
	return cli.conf.PageSize
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	fmt.Fprintf(cli.out, format, args...)
}

func (cli *commandLine) printJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding output")
	}
	cli.printf("%s\n", b)
	return nil
}
