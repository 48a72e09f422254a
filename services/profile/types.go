package profile

import "time"

type Profile struct {
	ID          string    `json:"id" structs:"-"`
	Username    string    `json:"username" structs:"username"`
	HelmetColor string    `json:"helmetColor" structs:"helmetColor"`
	Pin         string    `json:"pin" structs:"pin"`
	PinEnabled  bool      `json:"pinEnabled" structs:"pinEnabled"`
	Theme       string    `json:"theme" structs:"theme"`
	CreatedAt   time.Time `json:"createdAt" structs:"createdAt,omitnested"`
}

// NewProfile carries the caller-supplied fields for profile creation.
type NewProfile struct {
	Username    string `json:"username"`
	HelmetColor string `json:"helmetColor"`
	Pin         string `json:"pin"`
	PinEnabled  bool   `json:"pinEnabled"`
	Theme       string `json:"theme"`
}

// Update carries a partial profile mutation. Nil fields are left unchanged.
type Update struct {
	Username    *string `json:"username"`
	HelmetColor *string `json:"helmetColor"`
	Pin         *string `json:"pin"`
	PinEnabled  *bool   `json:"pinEnabled"`
	Theme       *string `json:"theme"`
}

// ReadinessCheck is an append-only log entry. No update or delete exists.
type ReadinessCheck struct {
	Username   string    `json:"username" structs:"username"`
	Timestamp  time.Time `json:"timestamp" structs:"timestamp,omitnested"`
	Status     string    `json:"status" structs:"status"`
	AppVersion string    `json:"app_version" structs:"app_version"`
}
