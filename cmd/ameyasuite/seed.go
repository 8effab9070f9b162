package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ameyasuite/backend/internal/domain/repository"
	dto "github.com/ameyasuite/backend/internal/http/dto/auth"
	authsvc "github.com/ameyasuite/backend/internal/http/services/auth"
	"github.com/ameyasuite/backend/internal/observability/logger"
	"github.com/ameyasuite/backend/internal/security/password"
	"github.com/ameyasuite/backend/internal/store"
)

// seedOptions describe la compañía demo. Plan, Status y MaxUsers sólo se
// escriben desde acá.
type seedOptions struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Company   string
	Theme     string
	Plan      string
	Status    string
	MaxUsers  int
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	so := seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Crea una compañía demo con su admin y datos de suscripción",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			ctx := cmd.Context()
			log := logger.L().Named("seed")

			if cfg.Storage.Driver == "memory" {
				log.Warn("storage.driver=memory: los datos se pierden al salir")
			}
			st, err := store.Open(ctx, store.Config{
				Driver:      cfg.Storage.Driver,
				DSN:         cfg.Storage.DSN,
				AutoMigrate: cfg.Storage.AutoMigrate,
			})
			if err != nil {
				return err
			}
			defer st.Close()

			hasher, err := password.NewBcrypt(cfg.Security.BcryptSaltRounds)
			if err != nil {
				return err
			}
			auth := authsvc.NewAuthService(authsvc.Deps{Store: st, Hasher: hasher})

			company, created, err := seedDemo(ctx, st, auth, so)
			if err != nil {
				return err
			}
			if !created {
				log.Info("company already exists, nothing to do",
					logger.CompanyID(company.ID), logger.CompanySlug(company.Slug))
				return nil
			}
			log.Info("demo company created",
				logger.CompanyID(company.ID), logger.CompanySlug(company.Slug), logger.Email(so.Email))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&so.Email, "email", "admin@demo.ameyasuite.com", "Email del admin")
	f.StringVar(&so.Password, "password", "demo1234", "Password del admin")
	f.StringVar(&so.FirstName, "first-name", "Demo", "Nombre del admin")
	f.StringVar(&so.LastName, "last-name", "Admin", "Apellido del admin")
	f.StringVar(&so.Company, "company", "Demo Company", "Nombre de la compañía")
	f.StringVar(&so.Theme, "theme-color", repository.DefaultThemeColor, "Color de tema")
	f.StringVar(&so.Plan, "plan", "PREMIUM", "Plan de suscripción")
	f.StringVar(&so.Status, "status", "ACTIVE", "Estado de la suscripción")
	f.IntVar(&so.MaxUsers, "max-users", 50, "Máximo de usuarios")
	return cmd
}

// seedDemo es idempotente por nombre de compañía: si ya existe la devuelve
// con created=false sin tocarla.
func seedDemo(ctx context.Context, st repository.Store, auth authsvc.AuthService, o seedOptions) (*repository.Company, bool, error) {
	existing, err := st.Companies().GetByName(ctx, o.Company)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, false, fmt.Errorf("seed: lookup company: %w", err)
	}

	res, err := auth.CompanySignup(ctx, dto.CompanySignupRequest{
		Email:       o.Email,
		Password:    o.Password,
		CompanyName: o.Company,
		FirstName:   o.FirstName,
		LastName:    o.LastName,
		ThemeColor:  o.Theme,
	})
	if err != nil {
		return nil, false, fmt.Errorf("seed: company signup: %w", err)
	}

	if err := st.Companies().UpdateSubscription(ctx, res.Company.ID, repository.SubscriptionInput{
		Plan:     o.Plan,
		Status:   o.Status,
		MaxUsers: o.MaxUsers,
	}); err != nil {
		return nil, false, fmt.Errorf("seed: subscription: %w", err)
	}

	company, err := st.Companies().GetByID(ctx, res.Company.ID)
	if err != nil {
		return nil, false, fmt.Errorf("seed: reload company: %w", err)
	}
	return company, true, nil
}
