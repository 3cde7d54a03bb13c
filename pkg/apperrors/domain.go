package apperrors

import "net/http"

// Predeclared domain errors. Services return these; handlers map them to
// responses via HandleError.
var (
	// AuthN / AuthZ
	ErrInvalidCredentials = New(CodeInvalidCredentials, "Invalid username or password", http.StatusUnauthorized)
	ErrUnauthorized       = New(CodeUnauthorized, "Authentication required", http.StatusUnauthorized)
	ErrForbidden          = New(CodeForbidden, "Access denied", http.StatusForbidden)
	ErrInvalidToken       = New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)

	// Users
	ErrUserNotFound = New(CodeUserNotFound, "User not found", http.StatusNotFound)

	// Programs
	ErrProgramNotFound    = New(CodeProgramNotFound, "Program not found", http.StatusNotFound)
	ErrPermissionNotFound = New(CodePermissionNotFound, "Agent permission not found", http.StatusNotFound)

	// Cards
	ErrCardNotFound            = New(CodeCardNotFound, "Card key not found", http.StatusNotFound)
	ErrInvalidStatusTransition = New(CodeInvalidStatusTransition, "Card status transition is not allowed", http.StatusBadRequest)
	ErrMachineLimitReached     = New(CodeMachineLimitReached, "Machine binding limit reached", http.StatusBadRequest)
	ErrCardBanned              = New(CodeCardBanned, "Card key is banned", http.StatusBadRequest)
	ErrCardExpired             = New(CodeCardExpired, "Card key has expired", http.StatusBadRequest)

	// Balance
	ErrInsufficientBalance = New(CodeInsufficientBalance, "Insufficient balance", http.StatusBadRequest)
	ErrBalanceConflict     = New(CodeBalanceConflict, "Balance was modified concurrently, please retry", http.StatusConflict)

	// Pricing
	ErrPackageNotFound      = New(CodePackageNotFound, "Subscription package not found", http.StatusNotFound)
	ErrNoPricingForDuration = New(CodeNoPricingForDuration, "No active package covers this duration", http.StatusBadRequest)

	// Recharge cards
	ErrRechargeCodeNotFound    = New(CodeRechargeCodeNotFound, "Recharge code not found", http.StatusNotFound)
	ErrRechargeCodeAlreadyUsed = New(CodeRechargeCodeAlreadyUsed, "Recharge code has already been used", http.StatusBadRequest)
	ErrRechargeCodeExpired     = New(CodeRechargeCodeExpired, "Recharge code has expired", http.StatusBadRequest)
)
