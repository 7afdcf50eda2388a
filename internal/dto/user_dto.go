package dto

// SyncUserRequest carries the profile fields the client read from the identity provider.
// Subject is never taken from the body; it comes from the verified token. Email may
// be omitted from the body when the token carries one.
type SyncUserRequest struct {
	Subject   string  `json:"-" validate:"required,max=255"`
	Email     string  `json:"email" validate:"required,email,max=255"`
	Name      *string `json:"name,omitempty" validate:"omitempty,max=255"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=255"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=255"`
	ImageURL  *string `json:"image_url,omitempty" validate:"omitempty,url,max=1024"`
}
