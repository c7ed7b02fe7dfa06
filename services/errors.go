package services

import "errors"

// 服務層錯誤定義，handlers 依此對應 HTTP 狀態碼
var (
	ErrNotFound              = errors.New("record not found")
	ErrDatesConflict         = errors.New("car is not available for the selected dates")
	ErrEmailTaken            = errors.New("email is already in use")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrBookingNotCancellable = errors.New("only pending or confirmed bookings can be cancelled")
)
