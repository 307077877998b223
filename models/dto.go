package models

type RegisterRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
	Name     string `json:"name" form:"name" binding:"omitempty,min=2"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	OTP      string `json:"otp" binding:"required,len=6,numeric"`
	Password string `json:"password" binding:"required,min=6"`
}

type UpdatePasswordRequest struct {
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"omitempty,eqfield=Password"`
}

// UpdateUserRequest carries the editable subset of a user row.
type UpdateUserRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=120"`
	Phone      *string `json:"phone" binding:"omitempty,max=32"`
	Role       *string `json:"role" binding:"omitempty,min=1,max=32"`
	IsVerified *bool   `json:"isVerified"`
	IsCompany  *bool   `json:"isCompany"`
	IsOwner    *bool   `json:"isOwner"`
	IsRenter   *bool   `json:"isRenter"`
}

// Values returns only the fields that were sent, keyed by API field name.
func (r UpdateUserRequest) Values() map[string]any {
	values := map[string]any{}
	if r.Name != nil {
		values["name"] = *r.Name
	}
	if r.Phone != nil {
		values["phone"] = *r.Phone
	}
	if r.Role != nil {
		values["role"] = *r.Role
	}
	if r.IsVerified != nil {
		values["isVerified"] = *r.IsVerified
	}
	if r.IsCompany != nil {
		values["isCompany"] = *r.IsCompany
	}
	if r.IsOwner != nil {
		values["isOwner"] = *r.IsOwner
	}
	if r.IsRenter != nil {
		values["isRenter"] = *r.IsRenter
	}
	return values
}

type CreateCompanyRequest struct {
	Email string  `json:"email" binding:"required,email"`
	Name  string  `json:"name" binding:"required,min=2"`
	Phone *string `json:"phone" binding:"omitempty,max=32"`
}

type SetVerifiedRequest struct {
	IsVerified *bool `json:"isVerified" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CreateAdminRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}
