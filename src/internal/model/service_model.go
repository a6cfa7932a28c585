package model

type UpsertServiceRequest struct {
	ID          uint64  `json:"-"`
	Name        string  `json:"name" validate:"required,max=120"`
	Description string  `json:"description" validate:"max=2000"`
	BasePrice   float64 `json:"basePrice" validate:"required,gt=0"`
	Active      bool    `json:"active"`
}

type ServiceResponse struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"basePrice"`
	Active      bool    `json:"active"`
}
