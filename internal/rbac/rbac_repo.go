package rbac

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed policy.yaml
var defaultPolicy []byte

type Repository interface {
	GetRoleInheritance() ([]RoleLinkRow, error)
	GetRolePermissions() ([]RolePermissionRow, error)
}

type RoleLinkRow struct {
	Role   string
	Parent string
}

type RolePermissionRow struct {
	Role     string
	Resource string
	Action   string
}

type policyFile struct {
	Inherits    map[string]string              `yaml:"inherits"`
	Permissions map[string]map[string][]string `yaml:"permissions"`
}

type repository struct {
	policy policyFile
}

// NewRepository reads the role policy document; nil raw selects the
// embedded default.
func NewRepository(raw []byte) (Repository, error) {
	if raw == nil {
		raw = defaultPolicy
	}
	var p policyFile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse rbac policy: %w", err)
	}
	return &repository{policy: p}, nil
}

func (r *repository) GetRoleInheritance() ([]RoleLinkRow, error) {
	rows := make([]RoleLinkRow, 0, len(r.policy.Inherits))
	for role, parent := range r.policy.Inherits {
		rows = append(rows, RoleLinkRow{Role: role, Parent: parent})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Role < rows[j].Role })
	return rows, nil
}

func (r *repository) GetRolePermissions() ([]RolePermissionRow, error) {
	var rows []RolePermissionRow
	for role, resources := range r.policy.Permissions {
		for resource, actions := range resources {
			for _, action := range actions {
				rows = append(rows, RolePermissionRow{Role: role, Resource: resource, Action: action})
			}
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Role != rows[j].Role {
			return rows[i].Role < rows[j].Role
		}
		if rows[i].Resource != rows[j].Resource {
			return rows[i].Resource < rows[j].Resource
		}
		return rows[i].Action < rows[j].Action
	})
	return rows, nil
}
