package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ameyasuite/backend/internal/domain/permission"
	"github.com/ameyasuite/backend/internal/domain/repository"
	dto "github.com/ameyasuite/backend/internal/http/dto/auth"
	httperrors "github.com/ameyasuite/backend/internal/http/errors"
	"github.com/ameyasuite/backend/internal/observability/logger"
	"github.com/ameyasuite/backend/internal/security/password"
)

// AuthService define las operaciones de cuentas y credenciales.
type AuthService interface {
	// Signup crea un usuario. El caller ya validó email y password.
	Signup(ctx context.Context, in dto.SignupRequest) (*repository.PublicUser, error)

	// CompanySignup crea usuario, compañía, roles por defecto y membresía
	// en una única transacción.
	CompanySignup(ctx context.Context, in dto.CompanySignupRequest) (*CompanySignupResult, error)

	// ValidateUser devuelve el usuario si las credenciales son correctas y
	// nil en cualquier otro caso, sin distinguir email de password.
	ValidateUser(ctx context.Context, email, password string) *repository.PublicUser

	// GetUserByID devuelve nil si no existe o si el store falla.
	GetUserByID(ctx context.Context, id string) *repository.PublicUser
}

// CompanySignupResult es lo creado por CompanySignup.
type CompanySignupResult struct {
	User       *repository.PublicUser
	Company    *repository.Company
	Roles      []repository.CompanyRole
	Membership *repository.CompanyUser
}

type authService struct {
	deps Deps
}

// NewAuthService crea el service de autenticación.
func NewAuthService(deps Deps) AuthService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &authService{deps: deps}
}

func (s *authService) log(ctx context.Context, op string) *zap.Logger {
	return logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op(op),
	)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// splitName devuelve first/last explícitos; si ambos faltan, parte name
// en espacios: el primer token es el nombre y el resto el apellido.
func splitName(first, last, name string) (*string, *string) {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	if first == "" && last == "" {
		parts := strings.Fields(name)
		if len(parts) > 0 {
			first = parts[0]
			last = strings.Join(parts[1:], " ")
		}
	}
	return optional(first), optional(last)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ─── Signup ───

func (s *authService) Signup(ctx context.Context, in dto.SignupRequest) (*repository.PublicUser, error) {
	log := s.log(ctx, "Signup")
	email := normalizeEmail(in.Email)

	if taken, err := s.emailTaken(ctx, email); err != nil {
		log.Error("email lookup failed", logger.Err(err))
		return nil, httperrors.Errorf("signup: lookup email: %w", err)
	} else if taken {
		return nil, ErrEmailInUse
	}

	hash, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		return nil, hashError("signup", err)
	}

	first, last := splitName(in.FirstName, in.LastName, in.Name)
	u, err := s.deps.Store.Users().Create(ctx, repository.CreateUserInput{
		Email:        email,
		PasswordHash: hash,
		FirstName:    first,
		LastName:     last,
		Name:         optional(in.Name),
	})
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		log.Error("create user failed", logger.Err(err))
		return nil, httperrors.Errorf("signup: create user: %w", err)
	}

	log.Info("user signed up", logger.UserID(u.ID))
	return repository.Sanitize(u), nil
}

// hashError separa el error de validación (password demasiado largo) de
// una falla real del hasher.
func hashError(op string, err error) error {
	if errors.Is(err, password.ErrTooLong) {
		return ErrPasswordTooLong
	}
	return httperrors.Errorf("%s: hash password: %w", op, err)
}

// emailTaken: ErrNotUnique (store con emails duplicados) también cuenta
// como ocupado.
func (s *authService) emailTaken(ctx context.Context, email string) (bool, error) {
	_, err := s.deps.Store.Users().GetByEmail(ctx, email)
	switch {
	case err == nil, errors.Is(err, repository.ErrNotUnique):
		return true, nil
	case repository.IsNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

// ─── CompanySignup ───

func (s *authService) CompanySignup(ctx context.Context, in dto.CompanySignupRequest) (*CompanySignupResult, error) {
	log := s.log(ctx, "CompanySignup")
	email := normalizeEmail(in.Email)
	companyName := strings.TrimSpace(in.CompanyName)
	if email == "" || in.Password == "" || companyName == "" {
		return nil, ErrMissingFields
	}

	// Chequeos previos a la transacción: son advisory. Los unique constraints
	// del store cierran la carrera y se mapean a los mismos errores.
	if taken, err := s.emailTaken(ctx, email); err != nil {
		log.Error("email lookup failed", logger.Err(err))
		return nil, httperrors.Errorf("company signup: lookup email: %w", err)
	} else if taken {
		return nil, ErrEmailInUse
	}
	if _, err := s.deps.Store.Companies().GetByName(ctx, companyName); err == nil {
		return nil, ErrCompanyNameTaken
	} else if !repository.IsNotFound(err) {
		log.Error("company lookup failed", logger.Err(err))
		return nil, httperrors.Errorf("company signup: lookup company: %w", err)
	}

	hash, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		return nil, hashError("company signup", err)
	}
	first, last := splitName(in.FirstName, in.LastName, in.Name)
	themeColor := strings.TrimSpace(in.ThemeColor)
	if themeColor == "" {
		themeColor = repository.DefaultThemeColor
	}

	var res CompanySignupResult
	err = s.deps.Store.WithTx(ctx, func(ctx context.Context, tx repository.Repos) error {
		u, err := tx.Users().Create(ctx, repository.CreateUserInput{
			Email:        email,
			PasswordHash: hash,
			FirstName:    first,
			LastName:     last,
			Name:         optional(in.Name),
		})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		c, err := tx.Companies().Create(ctx, repository.CreateCompanyInput{
			Name:       companyName,
			Slug:       Slugify(companyName),
			ThemeColor: themeColor,
			Phone:      optional(in.Phone),
			Email:      optional(in.CompanyEmail),
			Address:    optional(in.Address),
			City:       optional(in.City),
			State:      optional(in.State),
			ZipCode:    optional(in.ZipCode),
		})
		if err != nil {
			return fmt.Errorf("create company: %w", err)
		}

		roles := make([]repository.CompanyRole, 0, 3)
		for _, def := range permission.DefaultRoles() {
			r, err := tx.Roles().Create(ctx, repository.CreateRoleInput{
				CompanyID:   c.ID,
				Name:        def.Name,
				Description: def.Description,
				Color:       def.Color,
				Permissions: def.Caps.Permissions(),
			})
			if err != nil {
				return roleCreationError(def.Name, err)
			}
			roles = append(roles, *r)
		}

		adminID := roles[0].ID
		m, err := tx.Memberships().Create(ctx, repository.CreateMembershipInput{
			UserID:    u.ID,
			CompanyID: c.ID,
			FirstName: first,
			LastName:  last,
			Status:    repository.MemberActive,
			IsActive:  true,
			RoleID:    &adminID,
			JoinedAt:  s.deps.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("create membership: %w", err)
		}

		res = CompanySignupResult{
			User:       repository.Sanitize(u),
			Company:    c,
			Roles:      roles,
			Membership: m,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRoleCreationFailed) {
			log.Error("role creation failed", logger.Err(err))
			return nil, err
		}
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		log.Error("company signup failed", logger.Err(err))
		return nil, httperrors.Errorf("company signup: %w", err)
	}

	log.Info("company signed up",
		logger.UserID(res.User.ID),
		logger.CompanyID(res.Company.ID),
		logger.CompanySlug(res.Company.Slug),
	)
	return &res, nil
}

func roleCreationError(role string, err error) error {
	detail := err.Error()
	if ce, ok := repository.AsConstraint(err); ok {
		detail = ce.Constraint
		if ce.Detail != "" {
			detail += ": " + ce.Detail
		}
	}
	return &RoleCreationError{Role: role, Detail: detail, Err: err}
}

// mapUniqueViolation traduce violaciones de unicidad de usuario o compañía a
// los errores del service. Devuelve nil para cualquier otro error.
func mapUniqueViolation(err error) error {
	ce, ok := repository.AsConstraint(err)
	if !ok {
		return nil
	}
	switch ce.Constraint {
	case repository.ConstraintUserEmail:
		return fmt.Errorf("%w: %w", ErrEmailInUse, err)
	case repository.ConstraintCompanyName, repository.ConstraintCompanySlug:
		return fmt.Errorf("%w: %w", ErrCompanyNameTaken, err)
	}
	return nil
}

// ─── ValidateUser ───

func (s *authService) ValidateUser(ctx context.Context, email, password string) *repository.PublicUser {
	log := s.log(ctx, "ValidateUser")
	email = normalizeEmail(email)

	u, err := s.deps.Store.Users().GetByEmail(ctx, email)
	if err != nil && !repository.IsNotFound(err) {
		log.Error("unique email lookup failed, retrying without uniqueness", logger.Err(err))
		u, err = s.deps.Store.Users().FindFirstByEmail(ctx, email)
		if err != nil && !repository.IsNotFound(err) {
			log.Error("fallback email lookup failed", logger.Err(err))
			return nil
		}
	}
	if err != nil || u == nil || u.Password == nil || *u.Password == "" {
		return nil
	}
	if !s.deps.Hasher.Verify(password, *u.Password) {
		return nil
	}

	pub := repository.Sanitize(u)
	if color := s.activeThemeColor(ctx, log, u.ID); color != "" {
		pub.ThemeColor = &color
	}
	return pub
}

// activeThemeColor devuelve el themeColor de la membresía activa más
// antigua, o "" si no hay o si falla la lectura.
func (s *authService) activeThemeColor(ctx context.Context, log *zap.Logger, userID string) string {
	m, err := s.deps.Store.Memberships().FirstActiveByUser(ctx, userID)
	if err != nil {
		if !repository.IsNotFound(err) {
			log.Error("membership lookup failed", logger.UserID(userID), logger.Err(err))
		}
		return ""
	}
	c, err := s.deps.Store.Companies().GetByID(ctx, m.CompanyID)
	if err != nil {
		log.Error("company lookup failed", logger.CompanyID(m.CompanyID), logger.Err(err))
		return ""
	}
	return c.ThemeColor
}

// ─── GetUserByID ───

func (s *authService) GetUserByID(ctx context.Context, id string) *repository.PublicUser {
	if id == "" {
		return nil
	}
	u, err := s.deps.Store.Users().GetByID(ctx, id)
	if err != nil {
		if !repository.IsNotFound(err) {
			s.log(ctx, "GetUserByID").Error("get user failed", logger.UserID(id), logger.Err(err))
		}
		return nil
	}
	return repository.Sanitize(u)
}
