package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"skilllink/backend/services/seed"
)

var (
	seedCount int
	seedValue uint64
	seedDemo  bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with demo accounts and fake members",
	Long: fmt.Sprintf(`Create the demo accounts (password %q) and --count fake members with
projects, services, jobs and announcements. Use --seed for reproducible data.`, seed.DemoPassword),
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedCount < 0 || seedCount > seed.MaxCount {
			return fmt.Errorf("--count must be between 0 and %d", seed.MaxCount)
		}

		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx := cmd.Context()
		st, err := openStore(ctx, cfg, logger, true)
		if err != nil {
			return err
		}
		defer st.Close()

		if seedValue == 0 {
			seedValue = uint64(time.Now().UnixNano())
		}
		seeder, err := seed.New(st, logger, seedValue)
		if err != nil {
			return err
		}

		if seedDemo {
			n, err := seeder.Demo(ctx)
			if err != nil {
				return err
			}
			logger.Info("demo accounts ready", zap.Int("created", n))
		}
		if seedCount == 0 {
			return nil
		}

		res, err := seeder.Users(ctx, seedCount)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(),
			"created %d users (%d students, %d mentors, %d companies), %d projects, %d services, %d jobs, %d announcements; %d failed\n",
			res.UsersCreated, res.Students, res.Mentors, res.Companies,
			res.Projects, res.Services, res.Jobs, res.Announcements, res.FailedAttempts)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 10, "number of fake members to create")
	seedCmd.Flags().Uint64Var(&seedValue, "seed", 0, "random seed (0 picks one from the clock)")
	seedCmd.Flags().BoolVar(&seedDemo, "demo", true, "create the fixed demo accounts")
}
