package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/ameyasuite/backend/internal/domain/repository"
)

func conflict(constraint, detail string) error {
	return &repository.ConstraintError{Constraint: constraint, Detail: detail}
}

// ─── Users ───

type userRepo struct{ v view }

func (r *userRepo) GetByEmail(_ context.Context, email string) (*repository.User, error) {
	var out *repository.User
	err := r.v.read(func(st *state) error {
		for i := range st.users {
			if st.users[i].Email != email {
				continue
			}
			if out != nil {
				return repository.ErrNotUnique
			}
			u := st.users[i]
			out = &u
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, repository.ErrNotFound
	}
	return out, nil
}

// FindFirstByEmail: el slice está en orden de inserción.
func (r *userRepo) FindFirstByEmail(_ context.Context, email string) (*repository.User, error) {
	var out *repository.User
	_ = r.v.read(func(st *state) error {
		for i := range st.users {
			if st.users[i].Email == email {
				u := st.users[i]
				out = &u
				return nil
			}
		}
		return nil
	})
	if out == nil {
		return nil, repository.ErrNotFound
	}
	return out, nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*repository.User, error) {
	var out *repository.User
	_ = r.v.read(func(st *state) error {
		if i := slices.IndexFunc(st.users, func(u repository.User) bool { return u.ID == id }); i >= 0 {
			u := st.users[i]
			out = &u
		}
		return nil
	})
	if out == nil {
		return nil, repository.ErrNotFound
	}
	return out, nil
}

func (r *userRepo) Create(_ context.Context, in repository.CreateUserInput) (*repository.User, error) {
	now := r.v.s.now()
	u := repository.User{
		ID:        uuid.NewString(),
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.PasswordHash != "" {
		h := in.PasswordHash
		u.Password = &h
	}

	err := r.v.write(func(st *state) error {
		if slices.ContainsFunc(st.users, func(x repository.User) bool { return x.Email == in.Email }) {
			return conflict(repository.ConstraintUserEmail, fmt.Sprintf("Key (email)=(%s) already exists.", in.Email))
		}
		st.users = append(st.users, u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ─── Companies ───

type companyRepo struct{ v view }

func (r *companyRepo) find(pred func(repository.Company) bool) (*repository.Company, error) {
	var out *repository.Company
	_ = r.v.read(func(st *state) error {
		if i := slices.IndexFunc(st.companies, pred); i >= 0 {
			c := st.companies[i]
			out = &c
		}
		return nil
	})
	if out == nil {
		return nil, repository.ErrNotFound
	}
	return out, nil
}

func (r *companyRepo) GetByID(_ context.Context, id string) (*repository.Company, error) {
	return r.find(func(c repository.Company) bool { return c.ID == id })
}

func (r *companyRepo) GetByName(_ context.Context, name string) (*repository.Company, error) {
	return r.find(func(c repository.Company) bool { return c.Name == name })
}

func (r *companyRepo) GetBySlug(_ context.Context, slug string) (*repository.Company, error) {
	return r.find(func(c repository.Company) bool { return c.Slug == slug })
}

func (r *companyRepo) Create(_ context.Context, in repository.CreateCompanyInput) (*repository.Company, error) {
	now := r.v.s.now()
	c := repository.Company{
		ID:         uuid.NewString(),
		Name:       in.Name,
		Slug:       in.Slug,
		ThemeColor: in.ThemeColor,
		Phone:      in.Phone,
		Email:      in.Email,
		Address:    in.Address,
		City:       in.City,
		State:      in.State,
		ZipCode:    in.ZipCode,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if c.ThemeColor == "" {
		c.ThemeColor = repository.DefaultThemeColor
	}

	err := r.v.write(func(st *state) error {
		for _, x := range st.companies {
			if x.Name == in.Name {
				return conflict(repository.ConstraintCompanyName, fmt.Sprintf("Key (name)=(%s) already exists.", in.Name))
			}
			if x.Slug == in.Slug {
				return conflict(repository.ConstraintCompanySlug, fmt.Sprintf("Key (slug)=(%s) already exists.", in.Slug))
			}
		}
		st.companies = append(st.companies, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *companyRepo) UpdateSubscription(_ context.Context, id string, in repository.SubscriptionInput) error {
	return r.v.write(func(st *state) error {
		i := slices.IndexFunc(st.companies, func(c repository.Company) bool { return c.ID == id })
		if i < 0 {
			return repository.ErrNotFound
		}
		plan, status, maxUsers := in.Plan, in.Status, in.MaxUsers
		c := st.companies[i]
		c.SubscriptionPlan, c.SubscriptionStatus, c.MaxUsers = &plan, &status, &maxUsers
		c.UpdatedAt = r.v.s.now()
		st.companies[i] = c
		return nil
	})
}

// ─── Roles ───

type roleRepo struct{ v view }

func (r *roleRepo) Create(_ context.Context, in repository.CreateRoleInput) (*repository.CompanyRole, error) {
	role := repository.CompanyRole{
		ID:          uuid.NewString(),
		CompanyID:   in.CompanyID,
		Name:        in.Name,
		Description: in.Description,
		Color:       in.Color,
		Permissions: slices.Clone(in.Permissions),
		CreatedAt:   r.v.s.now(),
	}
	if role.Permissions == nil {
		role.Permissions = []string{}
	}

	err := r.v.write(func(st *state) error {
		if !slices.ContainsFunc(st.companies, func(c repository.Company) bool { return c.ID == in.CompanyID }) {
			return fmt.Errorf("company %s: %w", in.CompanyID, repository.ErrInvalidInput)
		}
		if slices.ContainsFunc(st.roles, func(x repository.CompanyRole) bool {
			return x.CompanyID == in.CompanyID && x.Name == in.Name
		}) {
			return conflict(repository.ConstraintRoleCompanyName,
				fmt.Sprintf("Key (company_id, name)=(%s, %s) already exists.", in.CompanyID, in.Name))
		}
		st.roles = append(st.roles, role)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) ListByCompany(_ context.Context, companyID string) ([]repository.CompanyRole, error) {
	var out []repository.CompanyRole
	_ = r.v.read(func(st *state) error {
		for _, x := range st.roles {
			if x.CompanyID == companyID {
				x.Permissions = slices.Clone(x.Permissions)
				out = append(out, x)
			}
		}
		return nil
	})
	return out, nil
}

// ─── Memberships ───

type membershipRepo struct{ v view }

func (r *membershipRepo) Create(_ context.Context, in repository.CreateMembershipInput) (*repository.CompanyUser, error) {
	if !in.Status.Valid() {
		return nil, repository.ErrInvalidInput
	}
	m := repository.CompanyUser{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		CompanyID: in.CompanyID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Status:    in.Status,
		IsActive:  in.IsActive,
		RoleID:    in.RoleID,
		JoinedAt:  in.JoinedAt.UTC(),
	}

	err := r.v.write(func(st *state) error {
		if !slices.ContainsFunc(st.users, func(u repository.User) bool { return u.ID == in.UserID }) {
			return fmt.Errorf("user %s: %w", in.UserID, repository.ErrInvalidInput)
		}
		if !slices.ContainsFunc(st.companies, func(c repository.Company) bool { return c.ID == in.CompanyID }) {
			return fmt.Errorf("company %s: %w", in.CompanyID, repository.ErrInvalidInput)
		}
		if slices.ContainsFunc(st.members, func(x repository.CompanyUser) bool {
			return x.UserID == in.UserID && x.CompanyID == in.CompanyID
		}) {
			return conflict(repository.ConstraintMemberUserCompany,
				fmt.Sprintf("Key (user_id, company_id)=(%s, %s) already exists.", in.UserID, in.CompanyID))
		}
		st.members = append(st.members, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FirstActiveByUser ordena por joinedAt y luego por id.
func (r *membershipRepo) FirstActiveByUser(_ context.Context, userID string) (*repository.CompanyUser, error) {
	var out *repository.CompanyUser
	_ = r.v.read(func(st *state) error {
		for _, x := range st.members {
			if x.UserID != userID || !x.IsActive {
				continue
			}
			if out == nil || x.JoinedAt.Before(out.JoinedAt) ||
				(x.JoinedAt.Equal(out.JoinedAt) && x.ID < out.ID) {
				m := x
				out = &m
			}
		}
		return nil
	})
	if out == nil {
		return nil, repository.ErrNotFound
	}
	return out, nil
}

func (r *membershipRepo) ListByCompany(_ context.Context, companyID string) ([]repository.CompanyUser, error) {
	var out []repository.CompanyUser
	_ = r.v.read(func(st *state) error {
		for _, x := range st.members {
			if x.CompanyID == companyID {
				out = append(out, x)
			}
		}
		return nil
	})
	slices.SortStableFunc(out, func(a, b repository.CompanyUser) int {
		if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}
