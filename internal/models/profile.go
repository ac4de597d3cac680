// internal/models/profile.go
package models

import "time"

// UserProfile is the stored body profile of a user.
type UserProfile struct {
	UserID    string    `json:"userId" db:"user_id"`
	Height    *float64  `json:"height,omitempty" db:"height_cm"`
	Weight    *float64  `json:"weight,omitempty" db:"weight_kg"`
	BodyType  string    `json:"bodyType" db:"body_type"`
	SkinTone  string    `json:"skinTone" db:"skin_tone"`
	Gender    string    `json:"gender" db:"gender"`
	City      string    `json:"city,omitempty" db:"city"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ProfileUpdate is a partial update; nil fields are left untouched.
type ProfileUpdate struct {
	Height   *float64 `json:"height,omitempty" validate:"omitempty,gte=50,lte=272"`
	Weight   *float64 `json:"weight,omitempty" validate:"omitempty,gte=20,lte=400"`
	BodyType *string  `json:"bodyType,omitempty" validate:"omitempty,max=32"`
	SkinTone *string  `json:"skinTone,omitempty" validate:"omitempty,max=32"`
	Gender   *string  `json:"gender,omitempty" validate:"omitempty,gender"`
	City     *string  `json:"city,omitempty" validate:"omitempty,max=80"`
}

func (u ProfileUpdate) IsEmpty() bool {
	return u.Height == nil && u.Weight == nil && u.BodyType == nil &&
		u.SkinTone == nil && u.Gender == nil && u.City == nil
}

// Apply copies every set field of u onto p.
func (p *UserProfile) Apply(u ProfileUpdate) {
	if u.Height != nil {
		h := *u.Height
		p.Height = &h
	}
	if u.Weight != nil {
		w := *u.Weight
		p.Weight = &w
	}
	if u.BodyType != nil {
		p.BodyType = *u.BodyType
	}
	if u.SkinTone != nil {
		p.SkinTone = *u.SkinTone
	}
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
	if u.City != nil {
		p.City = *u.City
	}
}

// NormalizedProfile holds the canonical buckets every downstream component reads.
type NormalizedProfile struct {
	Gender       string `json:"gender"`
	HeightBucket string `json:"heightBucket"`
	BodyType     string `json:"bodyType"`
	SkinTone     string `json:"skinTone"`
	RawBodyType  string `json:"rawBodyType,omitempty"`
	City         string `json:"city,omitempty"`
}
