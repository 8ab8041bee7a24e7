package request

type CreateTeamRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Sport string `json:"sport" validate:"required,max=50"`
}
