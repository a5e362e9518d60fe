package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"inventra/internal/config"
	"inventra/internal/core/id"
	"inventra/internal/domain/auth"
	"inventra/internal/domain/catalogs/product"
	"inventra/internal/domain/documents/status"
	"inventra/internal/domain/documents/voucher"
	"inventra/internal/domain/payments/cheque"
	"inventra/internal/infrastructure/cache"
	"inventra/internal/infrastructure/http/v1/handlers"
	"inventra/internal/infrastructure/importer"
	"inventra/internal/infrastructure/storage/postgres"
	"inventra/internal/infrastructure/storage/postgres/read_repo"
	"inventra/pkg/logger"
)

func newTransitionCmd() *cobra.Command {
	var docType, from, to string

	cmd := &cobra.Command{
		Use:   "transition",
		Short: "Check a document status change",
		RunE: func(cmd *cobra.Command, args []string) error {
			guard, ok := handlers.DefaultGuards()[docType]
			if !ok {
				return fmt.Errorf("unknown document type %q", docType)
			}

			var current *status.Status
			if from != "" {
				current = status.Ref(status.Status(from))
			}
			proposed := status.Status(to)

			subject := fmt.Sprintf("%s -> %s", from, to)
			if printViolations(cmd.OutOrStdout(), subject, guard.Validate(current, proposed)) {
				return errViolations
			}
			fmt.Fprintf(cmd.OutOrStdout(), "allowed next: %v\n", guard.AllowedNext(proposed))
			return nil
		},
	}

	cmd.Flags().StringVar(&docType, "doc", handlers.DocIssueVoucher, "document type (issue_voucher, return_voucher, purchase_order)")
	cmd.Flags().StringVar(&from, "from", "", "current status (empty for a new document)")
	cmd.Flags().StringVar(&to, "to", "", "proposed status")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newSKUCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sku SKU...",
		Short: "Check product SKUs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, sku := range args {
				if printViolations(cmd.OutOrStdout(), sku, product.ValidateSKU(sku)) {
					failed = true
				}
			}
			if failed {
				return errViolations
			}
			return nil
		},
	}
}

func newVoucherFormatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voucher-format NUMBER...",
		Short: "Check return voucher number formats",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, number := range args {
				if printViolations(cmd.OutOrStdout(), number, voucher.ValidateNumberFormat(number)) {
					failed = true
				}
			}
			if failed {
				return errViolations
			}
			return nil
		},
	}
}

// offlineCheques finds no existing cheques; used when no database is configured.
type offlineCheques struct{}

func (offlineCheques) ChequeExists(context.Context, string, string, *id.ID) (bool, error) {
	return false, nil
}

func newImportChequesCmd() *cobra.Command {
	var cfgFile string
	var offline bool

	cmd := &cobra.Command{
		Use:   "import-cheques FILE.xlsx|FILE.csv",
		Short: "Check a cheque sheet before import",
		Long: `Checks every row of the first sheet (or of a .csv file): required columns,
amount, due date and duplicates inside the sheet. Unless --offline it also checks
duplicates in the database, that the customer code exists and that a linked
issue voucher exists. The report is printed as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			logger.SetDefault(logger.NewNop())

			var (
				reader    cheque.Reader = offlineCheques{}
				customers importer.CustomerLookup
				vouchers  importer.VoucherLookup
			)
			if !offline {
				cfg, err := config.Load(cfgFile)
				if err != nil {
					return err
				}
				pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.URL))
				if err != nil {
					return err
				}
				defer pool.Close()
				txm := postgres.NewTxManager(pool)
				reader = read_repo.NewChequeRepo(txm)
				customers = read_repo.NewCustomerRepo(txm)
				vouchers = read_repo.NewIssueVoucherRepo(txm)
			}

			checker := importer.NewChequeSheetChecker(cheque.NewChecker(reader), customers, vouchers)
			report, err := checker.CheckFile(ctx, args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if report.Errors > 0 {
				return errViolations
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", os.Getenv("CONFIG_PATH"), "path to YAML config file")
	cmd.Flags().BoolVar(&offline, "offline", false, "skip the database checks")
	return cmd
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the Redis customer cache",
	}
	cmd.AddCommand(newCacheInvalidateCmd())
	return cmd
}

func newCacheInvalidateCmd() *cobra.Command {
	var addr, password string
	var db int

	cmd := &cobra.Command{
		Use:   "invalidate CUSTOMER_ID...",
		Short: "Drop cached customer records after a credit limit change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if addr == "" {
				return fmt.Errorf("--redis-addr (REDIS_ADDR) is required")
			}

			ids := make([]id.ID, 0, len(args))
			for _, arg := range args {
				customerID, err := id.Parse(arg)
				if err != nil {
					return fmt.Errorf("invalid customer id %q: %w", arg, err)
				}
				ids = append(ids, customerID)
			}

			client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
			defer client.Close()

			customers := cache.NewCustomerCache(client, nil, 0)
			for _, customerID := range ids {
				if err := customers.Invalidate(ctx, customerID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: invalidated\n", customerID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "redis-addr", os.Getenv("REDIS_ADDR"), "Redis address")
	cmd.Flags().StringVar(&password, "redis-password", os.Getenv("REDIS_PASSWORD"), "Redis password")
	cmd.Flags().IntVar(&db, "redis-db", 0, "Redis database number")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var secret, issuer, user, branches, roles, active string
	var admin bool

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for testing the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := auth.NewJWTService(auth.JWTConfig{Secret: secret, Issuer: issuer})
			if err != nil {
				return err
			}

			token, expiresAt, err := svc.GenerateAccessToken(auth.TokenRequest{
				UserID:       user,
				Roles:        splitList(roles),
				BranchIDs:    splitList(branches),
				ActiveBranch: active,
				IsSuperAdmin: admin,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "signing secret")
	cmd.Flags().StringVar(&issuer, "issuer", "inventra", "token issuer")
	cmd.Flags().StringVar(&user, "user", "", "user id")
	cmd.Flags().StringVar(&branches, "branches", "", "comma-separated branch ids")
	cmd.Flags().StringVar(&roles, "roles", "", "comma-separated roles")
	cmd.Flags().StringVar(&active, "branch", "", "active branch id")
	cmd.Flags().BoolVar(&admin, "admin", false, "super admin")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
