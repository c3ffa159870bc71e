package models

// Account — снимок аккаунта из ответа бэкенда.
// Не источник истины: всегда выводится заново из account-lookup.
type Account struct {
	ID       int64     `json:"id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	Customer *Customer `json:"customer,omitempty"`
}

// Customer — вложенный профиль покупателя.
type Customer struct {
	ID          int64  `json:"id"`
	FullName    string `json:"fullName"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginGoogleRequest — id_token от Google OAuth, который бэкенд меняет на сессию.
type LoginGoogleRequest struct {
	Credential string `json:"credential"`
}

// LoginData — полезная нагрузка login/login-google/refresh.
type LoginData struct {
	AccessToken string   `json:"access_token"`
	Account     *Account `json:"account,omitempty"`
}

// AccountData — полезная нагрузка account-lookup.
// Отсутствие аккаунта кодируется null, не ошибкой.
type AccountData struct {
	Account *Account `json:"account"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

type ResendCodeRequest struct {
	Email string `json:"email"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type UpdateAccountRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

type UpdateCustomerRequest struct {
	ID          int64  `json:"id"`
	FullName    string `json:"fullName"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
}
