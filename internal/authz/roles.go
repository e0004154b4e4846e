package authz

import "strings"

// Roles are free-form labels chosen at onboarding; management roles all
// start with "Gestor" ("Gestor de Projetos", "Gestor Comercial", ...).
const (
	RoleManager   = "Gestor"
	RoleDeveloper = "Desenvolvedor"
	RoleDesigner  = "Designer"
	RoleComercial = "Comercial"
)

func IsManager(role string) bool {
	return strings.HasPrefix(role, RoleManager)
}
