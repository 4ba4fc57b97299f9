package models

// Plan enumerates the subscription tiers a client can select.
type Plan string

const (
	PlanEmprendedor    Plan = "emprendedor"
	PlanEmpresario     Plan = "empresario"
	PlanEmpresarioPlus Plan = "empresario_plus"
)

// Valid reports whether the plan is one of the known tiers.
func (p Plan) Valid() bool {
	switch p {
	case PlanEmprendedor, PlanEmpresario, PlanEmpresarioPlus:
		return true
	}
	return false
}

// Client is a tenant company. EmailIncidents is the unique contact address
// incidents are reported to; Plan stays nil until the client selects one.
type Client struct {
	BaseModel

	Name           string `gorm:"not null" json:"name"`
	EmailIncidents string `gorm:"uniqueIndex;not null" json:"emailIncidents"`
	Plan           *Plan  `json:"plan"`
}
