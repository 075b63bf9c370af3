package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/psawicki/advault"
	advaulthttp "github.com/psawicki/advault/http"
)

// Dependencies holds the wired services for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Archives advault.ArchiveStore
	Server   *advaulthttp.Server
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Serve ServeCmd `cmd:"" default:"1" help:"Run the archiver server"`
	List  ListCmd  `cmd:"" help:"List archived ads"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr     string `default:":5001" env:"ADVAULT_ADDR" help:"Listen address"`
	Dir      string `env:"ADVAULT_DIR" help:"Archive directory (default ~/AdVault)"`
	Headless bool   `default:"true" env:"ADVAULT_HEADLESS" negatable:"" help:"Run the browser headless"`
}

// Run starts the HTTP server and blocks until interrupted.
func (c *ServeCmd) Run(deps *Dependencies) error {
	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- deps.Server.Open()
	}()
	fmt.Fprintf(deps.Stdout, "advault listening on %s\n", c.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return deps.Server.Close(context.Background())
	}
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Dir string `env:"ADVAULT_DIR" help:"Archive directory (default ~/AdVault)"`
}

// Run prints the archive listing.
func (c *ListCmd) Run(deps *Dependencies) error {
	summaries, err := deps.Archives.List(deps.Ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FOLDER\tPAGE\tAD ID\tSAVED\tMEDIA")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", s.Folder, s.PageName, s.AdID, s.ArchivedDate, s.MediaCount)
	}
	return w.Flush()
}
