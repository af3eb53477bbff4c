package dto

type UpsertProfileRequest struct {
	FullName    string  `json:"full_name" validate:"required"`
	PhoneNumber string  `json:"phone_number" validate:"required"`
	DateOfBirth *string `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	AgeRange    *string `json:"age_range,omitempty"`

	NationalIDType   *string `json:"national_id_type,omitempty"`
	NationalIDNumber *string `json:"national_id_number,omitempty"`

	IsDiaspora bool    `json:"is_diaspora"`
	Country    *string `json:"country,omitempty"`
	State      *string `json:"state,omitempty"`
	LGA        *string `json:"lga,omitempty"`
	Address    *string `json:"address,omitempty"`

	ProfilePictureURL *string `json:"profile_picture_url,omitempty"`
}

type ProfileResponse struct {
	UserID      uint    `json:"user_id"`
	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	AgeRange    *string `json:"age_range,omitempty"`

	IsDiaspora bool    `json:"is_diaspora"`
	Country    *string `json:"country,omitempty"`
	State      *string `json:"state,omitempty"`
	LGA        *string `json:"lga,omitempty"`
	Address    *string `json:"address,omitempty"`

	ProfilePictureURL *string `json:"profile_picture_url,omitempty"`
	CreatedAt         string  `json:"created_at"`
}
