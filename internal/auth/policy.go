package auth

import (
	"fmt"
	"strings"

	"github.com/Hunteraulo1/f95-france/internal/models"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Permission is a "resource:action" pair checked against a role
type Permission string

const (
	PermGamesRead           Permission = "games:read"
	PermGamesWrite          Permission = "games:write"
	PermSubmissionsCreate   Permission = "submissions:create"
	PermSubmissionsModerate Permission = "submissions:moderate"
	PermTranslatorsRead     Permission = "translators:read"
	PermTranslatorsWrite    Permission = "translators:write"
	PermConfigManage        Permission = "config:manage"
	PermUsersManage         Permission = "users:manage"
	PermLogsRead            Permission = "logs:read"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// each role inherits everything granted to the role it points at
var roleParents = map[models.Role]models.Role{
	models.RoleTranslator: models.RoleUser,
	models.RoleAdmin:      models.RoleTranslator,
	models.RoleSuperadmin: models.RoleAdmin,
}

var rolePermissions = map[models.Role][]Permission{
	models.RoleUser:       {PermGamesRead, PermGamesWrite, PermSubmissionsCreate},
	models.RoleTranslator: {PermTranslatorsRead},
	models.RoleAdmin:      {PermSubmissionsModerate, PermTranslatorsWrite, PermConfigManage, PermUsersManage},
	models.RoleSuperadmin: {PermLogsRead},
}

// Policy answers role permission checks with a casbin RBAC enforcer
type Policy struct {
	enforcer *casbin.Enforcer
}

func NewPolicy() (*Policy, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load rbac model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}
	for role, perms := range rolePermissions {
		for _, p := range perms {
			obj, act := p.split()
			if _, err := e.AddPolicy(string(role), obj, act); err != nil {
				return nil, err
			}
		}
	}
	for child, parent := range roleParents {
		if _, err := e.AddGroupingPolicy(string(child), string(parent)); err != nil {
			return nil, err
		}
	}
	return &Policy{enforcer: e}, nil
}

// Can reports whether role holds perm, directly or through inheritance
func (p *Policy) Can(role models.Role, perm Permission) bool {
	if !role.Valid() {
		return false
	}
	obj, act := perm.split()
	ok, err := p.enforcer.Enforce(string(role), obj, act)
	return err == nil && ok
}

func (perm Permission) split() (string, string) {
	obj, act, _ := strings.Cut(string(perm), ":")
	return obj, act
}
