// Package cli реализует команды администратора partnerctl.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// Admin — операции над учётными записями партнёров.
type Admin interface {
	Activate(ctx context.Context, email, password string) error
	Deactivate(ctx context.Context, email string) error
	SetCommission(ctx context.Context, email, value string) error
}

// Connect открывает хранилище и возвращает Admin. close освобождает ресурсы.
type Connect func(ctx context.Context) (admin Admin, close func() error, err error)

// NewRootCmd собирает дерево команд partnerctl.
func NewRootCmd(connect Connect) *cobra.Command {
	root := &cobra.Command{
		Use:           "partnerctl",
		Short:         "Администрирование учётных записей партнёров",
		Long:          "partnerctl активирует партнёров после регистрации, блокирует вход и задаёт процент комиссии.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		activateCmd(connect),
		deactivateCmd(connect),
		setCommissionCmd(connect),
	)
	return root
}

// withAdmin выполняет fn с открытым хранилищем.
func withAdmin(cmd *cobra.Command, connect Connect, fn func(ctx context.Context, a Admin) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, closeFn, err := connect(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() { _ = closeFn() }()
	return fn(ctx, a)
}

func activateCmd(connect Connect) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "activate",
		Short: "Задать пароль и разрешить вход",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withAdmin(cmd, connect, func(ctx context.Context, a Admin) error {
				if err := a.Activate(ctx, email, password); err != nil {
					return fmt.Errorf("failed to activate %s: %w", email, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "partner %s activated\n", email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email учётной записи (обязательно)")
	cmd.Flags().StringVar(&password, "password", "", "новый пароль (обязательно)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func deactivateCmd(connect Connect) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "deactivate",
		Short: "Запретить вход",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withAdmin(cmd, connect, func(ctx context.Context, a Admin) error {
				if err := a.Deactivate(ctx, email); err != nil {
					return fmt.Errorf("failed to deactivate %s: %w", email, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "partner %s deactivated\n", email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email учётной записи (обязательно)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func setCommissionCmd(connect Connect) *cobra.Command {
	var email, value string
	cmd := &cobra.Command{
		Use:     "set-commission",
		Short:   "Задать процент комиссии партнёра",
		Example: "  partnerctl set-commission --email partner@example.com --value 12.5",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withAdmin(cmd, connect, func(ctx context.Context, a Admin) error {
				if err := a.SetCommission(ctx, email, value); err != nil {
					return fmt.Errorf("failed to set commission for %s: %w", email, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "commission of %s set to %s%%\n", email, value)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email учётной записи (обязательно)")
	cmd.Flags().StringVar(&value, "value", "", "процент от 0 до 100, не больше одного знака после запятой (обязательно)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}
