package directory

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"turno/internal/domain/auth"
)

type Service struct {
	Store     *Store
	AvatarDir string
}

func NewService(store *Store, avatarDir string) *Service {
	return &Service{Store: store, AvatarDir: avatarDir}
}

func (s *Service) Employees(ctx context.Context) ([]Employee, error) {
	return s.Store.ListEmployees(ctx)
}

func (s *Service) Employee(ctx context.Context, id string) (Employee, error) {
	return s.Store.GetEmployee(ctx, id)
}

// Hire creates a staff account. The username doubles as the initial
// password and the account is flagged for a mandatory password change.
func (s *Service) Hire(ctx context.Context, e Employee) (Employee, error) {
	if err := ValidateNewEmployee(e.FirstName, e.LastName); err != nil {
		return Employee{}, err
	}
	e.Username = DeriveUsername(e.FirstName, e.LastName)
	e.Role = auth.RoleStaff

	hash, err := auth.HashPassword(e.Username)
	if err != nil {
		return Employee{}, err
	}
	id, err := s.Store.CreateEmployee(ctx, e, hash)
	if err != nil {
		return Employee{}, err
	}
	return s.Store.GetEmployee(ctx, id)
}

func (s *Service) Update(ctx context.Context, e Employee) (Employee, error) {
	if err := ValidateNewEmployee(e.FirstName, e.LastName); err != nil {
		return Employee{}, err
	}
	if err := s.Store.UpdateEmployee(ctx, e); err != nil {
		return Employee{}, err
	}
	return s.Store.GetEmployee(ctx, e.ID)
}

func (s *Service) Dismiss(ctx context.Context, id string) error {
	return s.Store.DeleteEmployee(ctx, id)
}

// ResetPassword puts the account back on its derived initial password.
func (s *Service) ResetPassword(ctx context.Context, id string) error {
	e, err := s.Store.GetEmployee(ctx, id)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(e.Username)
	if err != nil {
		return err
	}
	return s.Store.ResetPassword(ctx, id, hash)
}

// SaveAvatar stores the uploaded image under the avatar directory and
// records its serving path.
func (s *Service) SaveAvatar(ctx context.Context, employeeID string, r io.Reader, ext string) (string, error) {
	if err := os.MkdirAll(s.AvatarDir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s%s", uuid.NewString(), ext)
	path := filepath.Join(s.AvatarDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", err
	}

	url := "/avatars/" + name
	if err := s.Store.SetAvatarURL(ctx, employeeID, url); err != nil {
		os.Remove(path)
		return "", err
	}
	return url, nil
}

func (s *Service) Departments(ctx context.Context) ([]Department, error) {
	return s.Store.ListDepartments(ctx)
}

func (s *Service) CreateDepartment(ctx context.Context, d Department) (Department, error) {
	id, err := s.Store.CreateDepartment(ctx, d)
	if err != nil {
		return Department{}, err
	}
	d.ID = id
	return d, nil
}

func (s *Service) UpdateDepartment(ctx context.Context, d Department) error {
	return s.Store.UpdateDepartment(ctx, d)
}

func (s *Service) DeleteDepartment(ctx context.Context, id string) error {
	return s.Store.DeleteDepartment(ctx, id)
}

func (s *Service) CompanyRoles(ctx context.Context) ([]CompanyRole, error) {
	return s.Store.ListCompanyRoles(ctx)
}

func (s *Service) CreateCompanyRole(ctx context.Context, r CompanyRole) (CompanyRole, error) {
	id, err := s.Store.CreateCompanyRole(ctx, r)
	if err != nil {
		return CompanyRole{}, err
	}
	r.ID = id
	return r, nil
}

func (s *Service) DeleteCompanyRole(ctx context.Context, id string) error {
	return s.Store.DeleteCompanyRole(ctx, id)
}

func (s *Service) Settings(ctx context.Context) (Settings, error) {
	return s.Store.GetSettings(ctx)
}

func (s *Service) UpdateSettings(ctx context.Context, st Settings) error {
	return s.Store.UpdateSettings(ctx, st)
}

func (s *Service) Periods(ctx context.Context) ([]CompanyPeriod, error) {
	return s.Store.ListPeriods(ctx)
}

func (s *Service) CreatePeriod(ctx context.Context, p CompanyPeriod) (CompanyPeriod, error) {
	if err := ValidatePeriod(p); err != nil {
		return CompanyPeriod{}, err
	}
	id, err := s.Store.CreatePeriod(ctx, p)
	if err != nil {
		return CompanyPeriod{}, err
	}
	p.ID = id
	return p, nil
}

func (s *Service) DeletePeriod(ctx context.Context, id string) error {
	return s.Store.DeletePeriod(ctx, id)
}
