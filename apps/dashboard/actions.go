package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/AkmalxonWeBd/education-platform/core/school"
	"github.com/AkmalxonWeBd/education-platform/core/session"
)

func (cli *commandLine) groupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage group membership",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add-student GROUP_ID STUDENT_ID",
			Short: "Add a student to a group",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := cli.svc.AddStudentToGroup(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				cli.printf("Added %s to group %s\n", args[1], args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove-student GROUP_ID STUDENT_ID",
			Short: "Remove a student from a group",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := cli.svc.RemoveStudentFromGroup(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				cli.printf("Removed %s from group %s\n", args[1], args[0])
				return nil
			},
		},
	)
	return cmd
}

func (cli *commandLine) attendanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Review group check-ins",
	}
	review := func(use, short, done string, fn func(*school.Service) func(cmd *cobra.Command, id string) (school.CheckIn, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " CHECKIN_ID",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := fn(cli.svc)(cmd, args[0]); err != nil {
					return err
				}
				cli.printf("%s %s\n", done, args[0])
				return nil
			},
		}
	}
	cmd.AddCommand(
		review("approve", "Mark a check-in as present", "Approved", func(s *school.Service) func(*cobra.Command, string) (school.CheckIn, error) {
			return func(cmd *cobra.Command, id string) (school.CheckIn, error) { return s.ApproveCheckIn(cmd.Context(), id) }
		}),
		review("reject", "Mark a check-in as absent", "Rejected", func(s *school.Service) func(*cobra.Command, string) (school.CheckIn, error) {
			return func(cmd *cobra.Command, id string) (school.CheckIn, error) { return s.RejectCheckIn(cmd.Context(), id) }
		}),
		&cobra.Command{
			Use:   "checkin GROUP_ID",
			Short: "Ask to be marked present at the current lesson of a group",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				usr, err := cli.svc.CurrentUser()
				if err != nil {
					return err
				}
				in, err := cli.svc.CheckIn(cmd.Context(), usr.ID, args[0])
				if err != nil {
					return err
				}
				cli.printf("Check-in %s is %s\n", in.ID, in.Status)
				return nil
			},
		},
		&cobra.Command{
			Use:   "summary",
			Short: "Count check-ins by status",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				all, err := cli.svc.ListCheckIns(cmd.Context())
				if err != nil {
					return err
				}
				b := school.BreakdownCheckIns(all)
				cli.printf("approved: %d\npending: %d\nabsent: %d\ntotal: %d\nrate: %d%%\n",
					b.Approved, b.Pending, b.Absent, b.Total, b.Percentage)
				return nil
			},
		},
	)
	return cmd
}

func (cli *commandLine) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard summary of the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			usr, err := cli.svc.CurrentUser()
			if err != nil {
				return err
			}
			stats, err := cli.svc.Summary(cmd.Context())
			if err != nil {
				return err
			}

			width := 0
			for _, s := range stats {
				if len(s.Label) > width {
					width = len(s.Label)
				}
			}
			cli.printf("%s (%s)\n", usr.Name, roleLabel(usr.Role))
			for _, s := range stats {
				cli.printf("  %s%s  %s\n", s.Label, strings.Repeat(" ", width-len(s.Label)), s.Value)
			}
			return nil
		},
	}
}

func roleLabel(role string) string {
	switch role {
	case session.RoleSuperAdmin:
		return "Super admin"
	case session.RoleSchoolAdmin:
		return "Maktab admini"
	case session.RoleTeacher:
		return "O'qituvchi"
	case session.RoleStudent:
		return "O'quvchi"
	case session.RoleParent:
		return "Ota-ona"
	}
	return role
}
