package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"swadesh-intern/internal/app"
	"swadesh-intern/internal/config"
	"swadesh-intern/internal/database"
	"swadesh-intern/internal/database/migration"
	dbpostgres "swadesh-intern/internal/database/postgres"
	"swadesh-intern/internal/database/seeder"
	"swadesh-intern/internal/domain/account"
	"swadesh-intern/internal/logging"
	"swadesh-intern/internal/usecase"
)

const cliActor = "cli"

var errUserIDRequired = errors.New("--user-id is required with the supabase identity provider")

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Operational commands for the SwadeshIntern backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.AddCommand(
		migrateCmd(),
		seedCmd(),
		grantAdminCmd(),
		issueCertificateCmd(),
		exportCertificatesCmd(),
		maintenanceCmd(),
	)
	return root
}

// withDB connects to Postgres only. Migrations and seeds must not need the
// rest of the stack to be configured correctly.
func withDB(ctx context.Context, fn func(db database.DB, log *logrus.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.Log)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	db, err := dbpostgres.Connect(connectCtx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db, log)
}

func withContainer(ctx context.Context, fn func(c *app.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c, err := app.NewContainer(cfg, logging.New(cfg.Log))
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), func(db database.DB, log *logrus.Logger) error {
				return migration.Runner{Logger: log}.Run(cmd.Context(), db.SQLDB())
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), func(db database.DB, log *logrus.Logger) error {
				statuses, err := migration.Runner{Logger: log}.Status(cmd.Context(), db.SQLDB())
				if err != nil {
					return err
				}
				printStatuses(cmd.OutOrStdout(), statuses)
				return nil
			})
		},
	})
	return cmd
}

func printStatuses(w io.Writer, statuses []migration.Status) {
	for _, st := range statuses {
		state := "pending"
		if st.Applied {
			state = "applied " + st.AppliedAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(w, "V%-4d %-40s %s\n", st.Version, st.Name, state)
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load settings, internship domains and testimonials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), func(db database.DB, log *logrus.Logger) error {
				return seeder.Runner{Seeders: seeder.Defaults(), Logger: log}.Run(cmd.Context(), db)
			})
		},
	}
}

type grantOptions struct {
	userID string
	email  string
	name   string
	super  bool
}

func (o grantOptions) admin(userID string) account.Admin {
	role := account.RoleAdmin
	if o.super {
		role = account.RoleSuperAdmin
	}
	return account.Admin{
		UserID:    userID,
		Name:      strings.TrimSpace(o.name),
		Email:     strings.ToLower(strings.TrimSpace(o.email)),
		Role:      role,
		IsActive:  true,
		CreatedBy: cliActor,
	}
}

// grant-admin is how the first super admin gets created: the console
// itself only lets super admins add others.
func grantAdminCmd() *cobra.Command {
	var opts grantOptions
	cmd := &cobra.Command{
		Use:   "grant-admin",
		Short: "Give an existing account access to the admin console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withContainer(ctx, func(c *app.Container) error {
				userID := strings.TrimSpace(opts.userID)
				if userID == "" {
					if c.Config.Identity.Provider == "supabase" {
						return errUserIDRequired
					}
					u, err := c.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(opts.email)))
					if err != nil {
						return fmt.Errorf("find user %s: %w", opts.email, err)
					}
					userID = u.ID.String()
					if opts.name == "" {
						opts.name = u.DisplayName
					}
				}
				created, err := c.Admins.Create(ctx, opts.admin(userID))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "granted %s to %s (%s)\n", created.Role, created.Email, created.UserID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&opts.userID, "user-id", "", "identity provider user id")
	cmd.Flags().StringVar(&opts.email, "email", "", "account email")
	cmd.Flags().StringVar(&opts.name, "name", "", "display name")
	cmd.Flags().BoolVar(&opts.super, "super", false, "grant the super admin role")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func issueCertificateCmd() *cobra.Command {
	var in usecase.IssueCertificateInput
	cmd := &cobra.Command{
		Use:   "issue-certificate",
		Short: "Issue an internship completion certificate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd.Context(), func(c *app.Container) error {
				issued, err := c.CertificateUC.Issue(cmd.Context(), cliActor, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", issued.Certificate.ID, issued.VerifyURL)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.StudentName, "name", "", "student name")
	cmd.Flags().StringVar(&in.Domain, "domain", "", "internship domain")
	cmd.Flags().StringVar(&in.Duration, "duration", "", "internship duration")
	cmd.Flags().StringVar(&in.StartDate, "start", "", "start date")
	cmd.Flags().StringVar(&in.AwardDate, "end", "", "award date")
	return cmd
}

func exportCertificatesCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export-certificates",
		Short: "Write every certificate as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd.Context(), func(c *app.Container) error {
				w := cmd.OutOrStdout()
				if output != "" && output != "-" {
					f, err := os.Create(output)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				n, err := c.CertificateUC.Export(cmd.Context(), w)
				if err != nil {
					return err
				}
				c.Logger.WithField("rows", n).Info("certificates exported")
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	return cmd
}

func parseToggle(arg string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", arg)
	}
}

func maintenanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "maintenance on|off",
		Short:     "Switch maintenance mode",
		ValidArgs: []string{"on", "off"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseToggle(args[0])
			if err != nil {
				return err
			}
			return withContainer(cmd.Context(), func(c *app.Container) error {
				st, err := c.SiteUC.SetMaintenance(cmd.Context(), on, cliActor)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "maintenance_mode=%t\n", st.MaintenanceMode)
				return nil
			})
		},
	}
}
