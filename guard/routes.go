package guard

import "github.com/Pazitos10/fastapi-auth-ds/users"

// Route is a named view subtree gated by a role allow-list
type Route struct {
	Name         string
	Path         string
	AllowedRoles []users.RoleType
}

// Routes lists the role-gated views of the application. Admin is never
// listed explicitly; the superuser bypass in Check covers it.
var Routes = []Route{
	{
		Name:         "encuestas",
		Path:         "/encuestas",
		AllowedRoles: []users.RoleType{users.RoleAlumno, users.RoleDocente},
	},
	{
		Name:         "reportes",
		Path:         "/reportes",
		AllowedRoles: []users.RoleType{users.RoleDocente, users.RoleSecretaria, users.RoleSecretariaAcademica},
	},
	{
		Name: "perfil",
		Path: "/perfil",
		AllowedRoles: []users.RoleType{
			users.RoleAlumno, users.RoleDocente,
			users.RoleSecretaria, users.RoleSecretariaAcademica,
		},
	},
}

// RouteByName looks a gated route up by name
func RouteByName(name string) (Route, bool) {
	for _, r := range Routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// CheckRoute gates the named route for the given role. Unknown routes are
// not gated.
func CheckRoute(role users.RoleType, name string) Decision {
	route, ok := RouteByName(name)
	if !ok {
		return Allow
	}
	return Check(role, route.AllowedRoles)
}
