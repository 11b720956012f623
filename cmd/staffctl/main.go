package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alimgiray/staffhub/internal/app"
	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/pkg/config"
	"github.com/alimgiray/staffhub/pkg/database"
	"github.com/alimgiray/staffhub/pkg/logger"
)

const workerID = "staffctl"

var rootCmd = &cobra.Command{
	Use:           "staffctl",
	Short:         "StaffHub administration CLI",
	Long:          "staffctl runs the StaffHub API and its maintenance jobs, loads demo fixtures and inspects the database.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("STAFFHUB")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("db", "", "database path (defaults to DB_PATH)")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(sweepCmd())
	rootCmd.AddCommand(alertsCmd())
	rootCmd.AddCommand(jobsCmd())
	rootCmd.AddCommand(usersCmd())
	rootCmd.AddCommand(dashboardCmd())
}

// loadConfig reads the environment configuration and applies CLI overrides
func loadConfig() (*config.Config, error) {
	logger.Init()
	if err := config.Load(); err != nil {
		return nil, err
	}
	cfg := config.AppConfig
	if path := viper.GetString("db"); path != "" {
		cfg.Database.Path = path
	}
	return cfg, nil
}

func withApp(fn func(a *app.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	conn, err := database.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(app.New(conn, cfg))
}

func serveCmd() *cobra.Command {
	var withoutWorkers bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				if err := a.Bootstrap(); err != nil {
					return err
				}
				if !withoutWorkers {
					wm := a.Workers()
					if err := wm.StartAll(); err != nil {
						return err
					}
					defer wm.StopAll()
				}

				srv := &http.Server{
					Addr:         ":" + a.Config.Server.Port,
					Handler:      a.Router(),
					ReadTimeout:  time.Duration(a.Config.Server.ReadTimeout) * time.Second,
					WriteTimeout: time.Duration(a.Config.Server.WriteTimeout) * time.Second,
				}
				go func() {
					<-cmd.Context().Done()
					ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					defer cancel()
					srv.Shutdown(ctx)
				}()
				fmt.Printf("Serving StaffHub API on http://localhost:%s\n", a.Config.Server.Port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&withoutWorkers, "no-workers", false, "do not start the periodic jobs")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Opening the database applies migrations
			return withApp(func(a *app.App) error {
				fmt.Printf("Database %s is up to date\n", a.Config.Database.Path)
				return nil
			})
		},
	}
}

func seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load skills, collaborators, projects and assignments from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			fixtures, err := app.LoadFixtures(file)
			if err != nil {
				return err
			}
			return withApp(func(a *app.App) error {
				result, err := a.Seed(fixtures)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(result)
				}
				tw := newTable()
				tw.AppendHeader(table.Row{"Skills", "Collaborators", "Projects", "Assignments"})
				tw.AppendRow(table.Row{result.Skills, result.Collaborators, result.Projects, result.Assignments})
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "fixtures file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func sweepCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Release collaborators from projects ending within 30 days",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				if dryRun {
					stats, err := a.Services.Assignments.GetRemovalStatistics()
					if err != nil {
						return err
					}
					if viper.GetBool("json") {
						return printJSON(stats)
					}
					tw := newTable()
					tw.AppendHeader(table.Row{"Active assignments", "Ending soon", "To be released"})
					tw.AppendRow(table.Row{stats.ActiveAssignments, stats.EndingSoon, stats.CollaboratorsToBeReleased})
					tw.Render()
					return nil
				}
				return runJob(a, models.JobTypeEndingSweep)
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only report what would be released")
	return cmd
}

func alertsCmd() *cobra.Command {
	alerts := &cobra.Command{Use: "alerts", Short: "Inspect and evaluate project alerts"}
	alerts.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Evaluate alert rules for every active project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				return runJob(a, models.JobTypeAlertScan)
			})
		},
	})

	var highOnly bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List unresolved alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				var items []*models.ProjectAlert
				var err error
				if highOnly {
					items, err = a.Services.Alerts.GetHighPriorityAlerts()
				} else {
					items, err = a.Services.Alerts.GetActiveAlerts()
				}
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := newTable()
				tw.AppendHeader(table.Row{"ID", "Project", "Type", "Severity", "Message", "Created"})
				for _, alert := range items {
					tw.AppendRow(table.Row{alert.ID, alert.ProjectName, alert.Type, alert.Severity, alert.Message, alert.CreatedAt.Format(time.DateTime)})
				}
				tw.Render()
				return nil
			})
		},
	}
	list.Flags().BoolVar(&highOnly, "high", false, "only HIGH and CRITICAL alerts")
	alerts.AddCommand(list)
	return alerts
}

func jobsCmd() *cobra.Command {
	jobs := &cobra.Command{Use: "jobs", Short: "Inspect and run maintenance jobs"}

	var jobType string
	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent job runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				items, err := a.Services.Jobs.GetRecentJobs(models.JobType(jobType), limit)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := newTable()
				tw.AppendHeader(table.Row{"ID", "Type", "Status", "Affected", "Worker", "Started", "Error"})
				for _, job := range items {
					message := ""
					if job.ErrorMessage != nil {
						message = *job.ErrorMessage
					}
					tw.AppendRow(table.Row{job.ID, job.JobType, job.Status, job.AffectedCount, job.WorkerID, job.StartedAt.Format(time.DateTime), message})
				}
				tw.Render()
				return nil
			})
		},
	}
	list.Flags().StringVar(&jobType, "type", "", "filter by job type")
	list.Flags().IntVar(&limit, "limit", 20, "maximum number of runs")
	jobs.AddCommand(list)

	jobs.AddCommand(&cobra.Command{
		Use:       "run <type>",
		Short:     "Run one job now",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(models.JobTypeAlertScan), string(models.JobTypeEndingSweep), string(models.JobTypeNotificationCleanup)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				return runJob(a, models.JobType(args[0]))
			})
		},
	})
	return jobs
}

func usersCmd() *cobra.Command {
	users := &cobra.Command{Use: "users", Short: "Manage users"}
	users.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				items, err := a.Services.Users.GetAllUsers()
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := newTable()
				tw.AppendHeader(table.Row{"ID", "Name", "Email", "Role"})
				for _, u := range items {
					tw.AppendRow(table.Row{u.ID, u.FirstName + " " + u.LastName, u.Email, u.Role})
				}
				tw.Render()
				return nil
			})
		},
	})

	var firstName, lastName, email, password, role string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				u, err := a.Services.Users.CreateUser(&models.UserRequest{
					FirstName: firstName,
					LastName:  lastName,
					Email:     email,
					Password:  password,
					Role:      models.Role(strings.ToUpper(role)),
				})
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(u)
				}
				fmt.Printf("Created %s user %s (%s)\n", u.Role, u.Email, u.ID)
				return nil
			})
		},
	}
	create.Flags().StringVar(&firstName, "first-name", "", "first name")
	create.Flags().StringVar(&lastName, "last-name", "", "last name")
	create.Flags().StringVar(&email, "email", "", "email address")
	create.Flags().StringVar(&password, "password", "", "password")
	create.Flags().StringVar(&role, "role", string(models.RoleUser), "ADMIN, MANAGER or USER")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")
	users.AddCommand(create)
	return users
}

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show dashboard metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				d, err := a.Services.Statistics.Dashboard()
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(d)
				}
				tw := newTable()
				tw.AppendHeader(table.Row{"Metric", "Value"})
				tw.AppendRows([]table.Row{
					{"Active projects", d.ActiveProjects},
					{"Active collaborators", d.ActiveCollaborators},
					{"Recently updated projects", d.RecentlyUpdatedProjects},
					{"Overdue projects", d.OverdueProjects},
					{"Recent assignments", d.RecentAssignments},
					{"Average progress", fmt.Sprintf("%.1f%%", d.AverageProgress)},
				})
				tw.Render()
				return nil
			})
		},
	}
}

func runJob(a *app.App, jobType models.JobType) error {
	job, err := a.Services.Jobs.Run(jobType, workerID)
	if job != nil {
		if viper.GetBool("json") {
			if perr := printJSON(job); perr != nil {
				return perr
			}
		} else {
			fmt.Printf("%s %s: %d affected\n", job.JobType, job.Status, job.AffectedCount)
		}
	}
	return err
}

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleLight)
	return tw
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
