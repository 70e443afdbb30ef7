package companies

import "time"

// Company is a corporate client whose candidate list the portal works.
type Company struct {
	ID        string    `json:"companyId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
