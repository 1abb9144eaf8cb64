package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/AkmalxonWeBd/education-platform/core"
	"github.com/AkmalxonWeBd/education-platform/core/resource"
	"github.com/AkmalxonWeBd/education-platform/core/school"
)

func resourcesHelp() string {
	return "Resources: " + strings.Join(school.ListingNames(), ", ")
}

func (cli *commandLine) listCmd() *cobra.Command {
	var (
		search   string
		page     int
		pageSize int
	)
	cmd := &cobra.Command{
		Use:   "list RESOURCE [key=value...]",
		Short: "Print one page of a resource as a table",
		Long:  "Print one page of a resource as a table. Extra key=value arguments filter the list on the server.\n" + resourcesHelp(),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listing, q, err := lookupQuery(args)
			if err != nil {
				return err
			}
			snap, err := resource.Await(cmd.Context(), cli.svc.Cache(), q)
			if err != nil {
				return err
			}

			if pageSize <= 0 {
				pageSize = cli.pageSize()
			}
			grid := listing.NewGrid(school.GridOptions{PageSize: pageSize})
			if err := grid.Load(snap); err != nil {
				return err
			}
			grid.SetSearch(search)
			grid.SetPage(page - 1)
			cli.printf("%s\n", grid.Render(cli.styles(), -1))
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "only show rows matching this text")
	cmd.Flags().IntVar(&page, "page", 1, "page to show, starting at 1")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "rows per page (default from config)")
	return cmd
}

// lookupQuery resolves RESOURCE [key=value...] arguments.
func lookupQuery(args []string) (school.Listing, resource.Query, error) {
	listing, err := school.LookupListing(args[0])
	if err != nil {
		return school.Listing{}, resource.Query{}, err
	}
	params, err := core.ParseParams(args[1:])
	if err != nil {
		return school.Listing{}, resource.Query{}, err
	}
	q, err := listing.Query(params)
	if err != nil {
		return school.Listing{}, resource.Query{}, err
	}
	return listing, q, nil
}

func (cli *commandLine) createCmd() *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "create RESOURCE --data JSON",
		Short: "Create a record from a JSON payload",
		Long:  "Create a record from a JSON payload. The payload is validated before anything is sent.\n" + resourcesHelp(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if data == "" {
				_ = cmd.Usage()
				return errHelp
			}
			listing, err := school.LookupListing(args[0])
			if err != nil {
				return err
			}
			created, err := listing.Create(cmd.Context(), cli.svc, []byte(data))
			if err != nil {
				return err
			}
			return cli.printJSON(created)
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "the record as JSON")
	return cmd
}

func (cli *commandLine) updateCmd() *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "update RESOURCE ID --data JSON",
		Short: "Update a record from a JSON payload",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if data == "" {
				_ = cmd.Usage()
				return errHelp
			}
			listing, err := school.LookupListing(args[0])
			if err != nil {
				return err
			}
			updated, err := listing.Update(cmd.Context(), cli.svc, args[1], []byte(data))
			if err != nil {
				return err
			}
			return cli.printJSON(updated)
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "the record as JSON")
	return cmd
}

func (cli *commandLine) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete RESOURCE ID",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			listing, err := school.LookupListing(args[0])
			if err != nil {
				return err
			}
			if err := listing.Delete(cmd.Context(), cli.svc, args[1]); err != nil {
				return err
			}
			cli.printf("Deleted %s %s\n", args[0], args[1])
			return nil
		},
	}
}
