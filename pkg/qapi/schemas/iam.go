package schemas

import "time"

type Principal struct {
	Subject   string    `json:"subject" doc:"Token subject"`
	ExpiresAt time.Time `json:"expires_at,omitempty" doc:"Token expiry; zero for tokens that never expire"`
}

type MeResponse struct {
	Body struct {
		Principal Principal `json:"principal"`
	}
}
