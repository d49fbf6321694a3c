package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"spotifake/internal/postgres"
	cl "spotifake/pkg/catalog"
)

type variables struct {
	PostgresHost string `required:"true" envconfig:"postgres_host"`
	PostgresPort int    `required:"false" envconfig:"postgres_port" default:"5432"`
	PostgresDB   string `required:"true" envconfig:"postgres_db"`
	PostgresUser string `required:"true" envconfig:"postgres_user"`
	PostgresPass string `required:"true" envconfig:"postgres_pass"`
	PostgresSSL  bool   `required:"false" envconfig:"postgres_ssl"`
}

var (
	rootCmd = &cobra.Command{
		Use:          "spotifakectl",
		Short:        "Administrative tasks for the spotifake catalog",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			return envconfig.Process("spotifake", &v)
		},
	}

	createUserCmd = &cobra.Command{
		Use:   "createuser <username>",
		Short: "Create an API user",
		Args:  cobra.ExactArgs(1),
		RunE:  cmdCreateUser,
	}

	setStaffCmd = &cobra.Command{
		Use:   "setstaff <username>",
		Short: "Grant or revoke write access for a user",
		Args:  cobra.ExactArgs(1),
		RunE:  cmdSetStaff,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert the database migrations",
		Args:  cobra.NoArgs,
		RunE:  cmdMigrate,
	}

	v variables

	createUserCfg struct {
		password string
		staff    bool
	}
	setStaffCfg struct {
		revoke bool
	}
	migrateCfg struct {
		source string
		down   bool
	}
)

func config() postgres.Config {
	return postgres.Config{
		Host:       v.PostgresHost,
		Port:       v.PostgresPort,
		Name:       v.PostgresDB,
		Password:   v.PostgresPass,
		Username:   v.PostgresUser,
		DisableSSL: !v.PostgresSSL,
	}
}

func openStore() (*postgres.Postgres, error) {
	pg, err := postgres.New(config())
	if err != nil {
		return nil, errors.Wrap(err, "connect to postgres")
	}
	return pg, nil
}

func cmdCreateUser(cmd *cobra.Command, args []string) error {
	if createUserCfg.password == "" {
		return errors.New("--password must be provided")
	}
	pg, err := openStore()
	if err != nil {
		return err
	}
	defer pg.Close()

	user, err := pg.CreateUser(context.Background(), cl.CreateUserRequest{
		Username: args[0],
		Password: createUserCfg.password,
		IsStaff:  createUserCfg.staff,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created user %q (id %d, staff %t)\n", user.Username, user.ID, user.IsStaff)
	return nil
}

func cmdSetStaff(cmd *cobra.Command, args []string) error {
	pg, err := openStore()
	if err != nil {
		return err
	}
	defer pg.Close()

	user, err := pg.SetStaff(context.Background(), args[0], !setStaffCfg.revoke)
	if errors.Is(err, cl.ErrNotFound) {
		return errors.Errorf("no user named %q", args[0])
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "user %q staff %t\n", user.Username, user.IsStaff)
	return nil
}

func cmdMigrate(cmd *cobra.Command, args []string) error {
	if migrateCfg.down {
		return postgres.Rollback(config(), migrateCfg.source)
	}
	return postgres.Migrate(config(), migrateCfg.source)
}

func main() {
	createUserCmd.Flags().StringVar(&createUserCfg.password, "password", "", "password of the new user")
	createUserCmd.Flags().BoolVar(&createUserCfg.staff, "staff", false, "allow the user to modify the catalog")
	setStaffCmd.Flags().BoolVar(&setStaffCfg.revoke, "revoke", false, "remove write access instead of granting it")
	migrateCmd.Flags().StringVar(&migrateCfg.source, "source", "file://db/migrations", "migration source url")
	migrateCmd.Flags().BoolVar(&migrateCfg.down, "down", false, "revert every applied migration")

	rootCmd.AddCommand(createUserCmd)
	rootCmd.AddCommand(setStaffCmd)
	rootCmd.AddCommand(migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
