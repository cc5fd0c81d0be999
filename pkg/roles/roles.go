package roles

// Role comes from the identity provider's "role" claim. Each role includes
// the permissions of the ones ranked below it.
type Role string

const (
	Viewer   Role = "viewer"
	Operator Role = "operator"
	Admin    Role = "admin"
)

var rank = map[Role]int{
	Viewer:   1,
	Operator: 2,
	Admin:    3,
}

// Rank is 0 for roles the service does not know.
func (r Role) Rank() int {
	return rank[r]
}

// HasPermission reports whether r ranks at least as high as required.
// An unknown role is treated as a viewer.
func (r Role) HasPermission(required Role) bool {
	have := r.Rank()
	if have == 0 {
		have = rank[Viewer]
	}
	return have >= required.Rank()
}

func (r Role) IsValid() bool {
	_, ok := rank[r]
	return ok
}

func (r Role) String() string {
	return string(r)
}
