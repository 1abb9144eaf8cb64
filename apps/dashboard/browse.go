package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/AkmalxonWeBd/education-platform/apps/dashboard/tui"
	"github.com/AkmalxonWeBd/education-platform/core/resource"
	"github.com/AkmalxonWeBd/education-platform/core/school"
)

func (cli *commandLine) browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse RESOURCE [key=value...]",
		Short: "Open a live, searchable table of a resource",
		Long:  "Open a live, searchable table of a resource. The table follows the cache: mutations made elsewhere show up as soon as the list is fetched again.\n" + resourcesHelp(),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cli.isTTY == nil || !cli.isTTY() {
				return errNotTerminal
			}
			listing, q, err := lookupQuery(args)
			if err != nil {
				return err
			}
			return cli.browse(cmd, listing, q)
		},
	}
}

func (cli *commandLine) browse(cmd *cobra.Command, listing school.Listing, q resource.Query) error {
	ctx := cmd.Context()
	cache := cli.svc.Cache()
	key := q.Key()

	var p *tea.Program
	gopts := school.GridOptions{PageSize: cli.pageSize()}
	if listing.CanDelete() {
		gopts.OnDelete = func(id string) {
			go func() {
				err := listing.Delete(ctx, cli.svc, id)
				p.Send(tui.DeletedMsg{ID: id, Err: err})
			}()
		}
	}

	p = tea.NewProgram(tui.New(tui.Options{
		Title:   listing.Name,
		Grid:    listing.NewGrid(gopts),
		Refresh: func() { cache.Refetch(key) },
		Styles:  cli.styles(),
	}), tea.WithAltScreen(), tea.WithContext(ctx))
	sub := cache.Subscribe(q, func(snap resource.Snapshot) {
		p.Send(tui.SnapshotMsg(snap))
	})
	defer sub.Unsubscribe()

	_, err := p.Run()
	return err
}
