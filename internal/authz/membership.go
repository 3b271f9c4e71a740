package authz

import (
	"errors"
	"fmt"

	"github.com/Ouedraogo-junior/task-management-api/internal/models"
	"github.com/Ouedraogo-junior/task-management-api/internal/repository"
	"gorm.io/gorm"
)

// Membership gathers the facts the authorization engine decides on:
// whether the project exists, whether the user owns it, and the role on
// the membership row if one exists.
type Membership struct {
	Project *models.Project
	IsOwner bool
	Role    *models.ProjectRole
}

// Exists reports whether the project was found at all.
func (m Membership) Exists() bool {
	return m.Project != nil
}

// IsMember reports whether the user may access the project. The owner
// is a member even without an explicit membership row.
func (m Membership) IsMember() bool {
	return m.IsOwner || m.Role != nil
}

// IsAdmin reports whether the user holds owner-equivalent authority.
func (m Membership) IsAdmin() bool {
	if m.IsOwner {
		return true
	}
	return m.Role != nil && *m.Role == models.RoleAdmin
}

// Resolver loads membership facts for a (project, user) pair. All role
// and ownership checks in the API go through here so the decision logic
// is never duplicated per endpoint.
type Resolver struct {
	projects repository.ProjectRepository
}

func NewResolver(projects repository.ProjectRepository) *Resolver {
	return &Resolver{projects: projects}
}

// Resolve returns the membership facts for userID on projectID. A
// missing project yields a zero Membership and no error; callers must
// treat that as "not found", distinct from "found but forbidden".
func (r *Resolver) Resolve(projectID, userID uint64) (Membership, error) {
	project, err := r.projects.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Membership{}, nil
		}
		return Membership{}, fmt.Errorf("failed to find project: %w", err)
	}

	m := Membership{
		Project: project,
		IsOwner: project.OwnerID == userID,
	}

	member, err := r.projects.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return m, nil
		}
		return Membership{}, fmt.Errorf("failed to find membership: %w", err)
	}

	m.Role = &member.Role
	return m, nil
}
