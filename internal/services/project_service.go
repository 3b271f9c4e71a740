package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ouedraogo-junior/task-management-api/internal/authz"
	"github.com/Ouedraogo-junior/task-management-api/internal/models"
	"github.com/Ouedraogo-junior/task-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound        = errors.New("project not found")
	ErrProjectAccessDenied    = errors.New("user is not a member of the project")
	ErrProjectUpdateForbidden = errors.New("only the owner or an admin can update the project")
	ErrProjectDeleteForbidden = errors.New("only the owner can delete the project")
	ErrMemberManageForbidden  = errors.New("only the owner or an admin can manage members")
	ErrProjectNameRequired    = errors.New("project name is required")
	ErrAlreadyMember          = errors.New("user is already a member of the project")
	ErrCannotRemoveOwner      = errors.New("the project owner cannot be removed")
	ErrInvalidRole            = errors.New("role must be admin or member")
)

// ProjectService provides business logic for project and membership operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	resolver    *authz.Resolver
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, resolver *authz.Resolver) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		resolver:    resolver,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	OwnerID     uint64
}

// CreateProject creates a project owned by the actor. The owner also
// gets an explicit admin membership row so listings include the
// project; authority itself always derives from owner_id.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrProjectNameRequired
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
	}

	member := &models.ProjectMember{
		Role:     models.RoleAdmin,
		JoinedAt: time.Now(),
	}

	if err := s.projectRepo.CreateWithOwnerMembership(project, member); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjects returns the projects the user is a member of.
func (s *ProjectService) ListProjects(userID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project with its owner, members and tasks. The
// actor must be a member; a missing project reports not-found before
// any authorization verdict.
func (s *ProjectService) GetProject(projectID, actorID uint64) (*models.Project, error) {
	m, err := s.resolver.Resolve(projectID, actorID)
	if err != nil {
		return nil, err
	}

	switch authz.Decide(authz.ActionViewProject, m) {
	case authz.NotFound:
		return nil, ErrProjectNotFound
	case authz.Deny:
		return nil, ErrProjectAccessDenied
	}

	project, err := s.projectRepo.FindByIDWithDetails(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	return project, nil
}

// UpdateProjectInput represents a partial project update.
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// UpdateProject updates the project's name and description.
func (s *ProjectService) UpdateProject(projectID, actorID uint64, input UpdateProjectInput) (*models.Project, error) {
	m, err := s.resolver.Resolve(projectID, actorID)
	if err != nil {
		return nil, err
	}

	switch authz.Decide(authz.ActionUpdateProject, m) {
	case authz.NotFound:
		return nil, ErrProjectNotFound
	case authz.Deny:
		return nil, ErrProjectUpdateForbidden
	}

	project := m.Project
	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes the project with its tasks and memberships.
// Owner only.
func (s *ProjectService) DeleteProject(projectID, actorID uint64) error {
	m, err := s.resolver.Resolve(projectID, actorID)
	if err != nil {
		return err
	}

	switch authz.Decide(authz.ActionDeleteProject, m) {
	case authz.NotFound:
		return ErrProjectNotFound
	case authz.Deny:
		return ErrProjectDeleteForbidden
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// AddMemberInput represents parameters to add a project member.
type AddMemberInput struct {
	UserID uint64
	Role   models.ProjectRole
}

// AddMember adds a user to the project. Owner or admin only.
func (s *ProjectService) AddMember(projectID, actorID uint64, input AddMemberInput) (*models.Project, error) {
	m, err := s.resolver.Resolve(projectID, actorID)
	if err != nil {
		return nil, err
	}

	switch authz.Decide(authz.ActionManageMembers, m) {
	case authz.NotFound:
		return nil, ErrProjectNotFound
	case authz.Deny:
		return nil, ErrMemberManageForbidden
	}

	role := input.Role
	if role == "" {
		role = models.RoleMember
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	if _, err := s.userRepo.FindByID(input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.projectRepo.FindMember(projectID, input.UserID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    input.UserID,
		Role:      role,
		JoinedAt:  time.Now(),
	}

	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	project, err := s.projectRepo.FindByIDWithDetails(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload project: %w", err)
	}

	return project, nil
}

// RemoveMember removes a user from the project. Owner or admin only;
// the owner can never be removed. Removing a user with no membership
// row is a silent success.
func (s *ProjectService) RemoveMember(projectID, actorID, targetUserID uint64) error {
	m, err := s.resolver.Resolve(projectID, actorID)
	if err != nil {
		return err
	}

	switch authz.Decide(authz.ActionManageMembers, m) {
	case authz.NotFound:
		return ErrProjectNotFound
	case authz.Deny:
		return ErrMemberManageForbidden
	}

	if targetUserID == m.Project.OwnerID {
		return ErrCannotRemoveOwner
	}

	if err := s.projectRepo.RemoveMember(projectID, targetUserID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}
