package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"rostercore/pkg/domain"
)

func newStudentCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "student",
		Short: "Manage roster records",
	}
	cmd.AddCommand(
		newStudentAddCmd(opts),
		newStudentUpdateCmd(opts),
		newStudentGetCmd(opts),
		newStudentRemoveCmd(opts),
		newStudentSearchCmd(opts),
		newStudentListCmd(opts),
	)
	return cmd
}

func newStudentAddCmd(opts *rootOptions) *cobra.Command {
	var name, grade string
	var age int

	c := &cobra.Command{
		Use:   "add <id>",
		Short: "Register a new student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService(cmd)
			if err != nil {
				return err
			}
			student, _, err := svc.RegisterStudent(cmd.Context(), domain.Student{
				ID:    args[0],
				Name:  name,
				Age:   age,
				Grade: grade,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), student)
		},
	}
	c.Flags().StringVar(&name, "name", "", "full name (required)")
	c.Flags().IntVar(&age, "age", 0, "age in years (required)")
	c.Flags().StringVar(&grade, "grade", "", "grade label (required)")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("age")
	_ = c.MarkFlagRequired("grade")
	return c
}

func newStudentUpdateCmd(opts *rootOptions) *cobra.Command {
	var name, grade string
	var age int

	c := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of an existing student",
		Long:  "Update fields of an existing student. Only the supplied flags change; omitted fields keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService(cmd)
			if err != nil {
				return err
			}
			var patch domain.StudentPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("age") {
				patch.Age = &age
			}
			if cmd.Flags().Changed("grade") {
				patch.Grade = &grade
			}
			student, _, err := svc.UpdateStudent(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), student)
		},
	}
	c.Flags().StringVar(&name, "name", "", "new full name")
	c.Flags().IntVar(&age, "age", 0, "new age in years")
	c.Flags().StringVar(&grade, "grade", "", "new grade label")
	return c
}

func newStudentGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Look up a student by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService(cmd)
			if err != nil {
				return err
			}
			student, ok := svc.GetStudent(args[0])
			if !ok {
				return domain.NotFoundError{Entity: domain.EntityStudent, ID: args[0]}
			}
			return printJSON(cmd.OutOrStdout(), student)
		},
	}
}

func newStudentRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a student from the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService(cmd)
			if err != nil {
				return err
			}
			if _, err := svc.RemoveStudent(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s (%d remaining)\n", args[0], svc.CountStudents())
			return nil
		},
	}
}

func newStudentSearchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search students by name substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService(cmd)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), svc.SearchStudentsByName(args[0]))
		},
	}
}

func newStudentListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the roster in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.newService(cmd)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), svc.ListStudents())
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
