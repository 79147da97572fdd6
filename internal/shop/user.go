package shop

import (
	"bytes"
	"encoding/json"
)

type User struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	IsAdmin AdminFlag `json:"is_admin"`
	Address string    `json:"address,omitempty"`
	City    string    `json:"city,omitempty"`
	State   string    `json:"state,omitempty"`
	ZipCode string    `json:"zip_code,omitempty"`
	Phone   string    `json:"phone,omitempty"`
}

// Profile is the editable part of a user.
type Profile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Phone   string `json:"phone"`
}

func (u User) Profile() Profile {
	return Profile{
		Name:    u.Name,
		Email:   u.Email,
		Address: u.Address,
		City:    u.City,
		State:   u.State,
		ZipCode: u.ZipCode,
		Phone:   u.Phone,
	}
}

var jsonTrue = []byte("true")

// AdminFlag keeps the raw JSON of the is_admin field. Only the literal
// boolean true grants admin; 1, "true", null or a missing field do not.
type AdminFlag struct {
	raw json.RawMessage
}

func AdminFlagOf(b bool) AdminFlag {
	if b {
		return AdminFlag{raw: json.RawMessage("true")}
	}
	return AdminFlag{raw: json.RawMessage("false")}
}

func (f AdminFlag) IsTrue() bool {
	return bytes.Equal(bytes.TrimSpace(f.raw), jsonTrue)
}

func (f AdminFlag) MarshalJSON() ([]byte, error) {
	if len(f.raw) == 0 {
		return []byte("null"), nil
	}
	return f.raw, nil
}

func (f *AdminFlag) UnmarshalJSON(b []byte) error {
	f.raw = append(json.RawMessage(nil), b...)
	return nil
}
