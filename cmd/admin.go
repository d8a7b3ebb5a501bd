package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"skilllink/backend/handlers/auth"
	"skilllink/backend/models"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative account tasks",
}

var promoteCmd = &cobra.Command{
	Use:   "promote <email> <role>",
	Short: "Set the role of an account",
	Long: `Set the role of the account registered with email. This is how the
first administrator is created.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, role := auth.NormalizeEmail(args[0]), strings.ToLower(args[1])
		if !models.IsValidRole(role) {
			return fmt.Errorf("unknown role %q", role)
		}

		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx := cmd.Context()
		st, err := openStore(ctx, cfg, logger, false)
		if err != nil {
			return err
		}
		defer st.Close()

		u, err := st.GetUserByEmail(ctx, email)
		if err != nil {
			return err
		}
		if err := st.SetUserRole(ctx, u.ID, role); err != nil {
			return err
		}
		logger.Info("role updated", zap.Int64("user_id", u.ID), zap.String("from", u.Role), zap.String("to", role))
		return nil
	},
}

func init() {
	adminCmd.AddCommand(promoteCmd)
}
