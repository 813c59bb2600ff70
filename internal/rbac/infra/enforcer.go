package infra

import "github.com/casbin/casbin/v2"

// NewEnforcer builds an enforcer from the domain RBAC model. Policies
// are loaded per company at request time, not from a policy file.
func NewEnforcer(modelPath string) (*casbin.Enforcer, error) {
	return casbin.NewEnforcer(modelPath)
}
