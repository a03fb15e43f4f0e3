package cli

import (
	"github.com/spf13/cobra"
)

func newLibraryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the book inventory",
	}
	cmd.AddCommand(
		newLibraryStockCmd(opts),
		newLibraryBorrowCmd(opts),
		newLibraryReturnCmd(opts),
		newLibraryListCmd(opts),
	)
	return cmd
}

func newLibraryStockCmd(opts *rootOptions) *cobra.Command {
	var author string
	var quantity int

	c := &cobra.Command{
		Use:   "stock <title>",
		Short: "Add copies of a title to the inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService(cmd)
			if err != nil {
				return err
			}
			book, _, err := svc.StockBooks(cmd.Context(), args[0], author, quantity)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), book)
		},
	}
	c.Flags().StringVar(&author, "author", "", "author (required for new titles)")
	c.Flags().IntVar(&quantity, "quantity", 1, "number of copies to add")
	return c
}

func newLibraryBorrowCmd(opts *rootOptions) *cobra.Command {
	var quantity int

	c := &cobra.Command{
		Use:   "borrow <title>",
		Short: "Borrow copies of a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService(cmd)
			if err != nil {
				return err
			}
			book, _, err := svc.BorrowBooks(cmd.Context(), args[0], quantity)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), book)
		},
	}
	c.Flags().IntVar(&quantity, "quantity", 1, "number of copies to borrow")
	return c
}

func newLibraryReturnCmd(opts *rootOptions) *cobra.Command {
	var author string
	var quantity int

	c := &cobra.Command{
		Use:   "return <title>",
		Short: "Return copies of a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService(cmd)
			if err != nil {
				return err
			}
			book, _, err := svc.ReturnBooks(cmd.Context(), args[0], author, quantity)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), book)
		},
	}
	c.Flags().StringVar(&author, "author", "", "author (required when the title is not in the inventory)")
	c.Flags().IntVar(&quantity, "quantity", 1, "number of copies to return")
	return c
}

func newLibraryListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the inventory in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.newService(cmd)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), svc.ListBooks())
		},
	}
}
