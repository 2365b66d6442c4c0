package roles

import "github.com/BayiPanel/BayiPanel/internal/permission"

type formInput struct {
	Name        string `json:"name" form:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" form:"description" validate:"max=255"`
}

type permissionsInput struct {
	Role        permission.Role `json:"role" validate:"required,max=100"`
	Permissions permission.Set  `json:"permissions" validate:"required"`
}

type checkResult struct {
	Allowed bool `json:"allowed"`
}
