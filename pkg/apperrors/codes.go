package apperrors

// ErrorCode identifies an error class to API clients.
type ErrorCode string

const (
	// System
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"

	// Generic business codes
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// AuthN / AuthZ
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	// Card / balance domain
	CodeProgramNotFound          ErrorCode = "PROGRAM_NOT_FOUND"
	CodeCardNotFound             ErrorCode = "CARD_NOT_FOUND"
	CodeInsufficientBalance      ErrorCode = "INSUFFICIENT_BALANCE"
	CodeInvalidStatusTransition  ErrorCode = "INVALID_STATUS_TRANSITION"
	CodeMachineLimitReached      ErrorCode = "MACHINE_LIMIT_REACHED"
	CodeCardBanned               ErrorCode = "CARD_BANNED"
	CodeCardExpired              ErrorCode = "CARD_EXPIRED"
	CodeRechargeCodeNotFound     ErrorCode = "RECHARGE_CODE_NOT_FOUND"
	CodeRechargeCodeAlreadyUsed  ErrorCode = "RECHARGE_CODE_ALREADY_USED"
	CodeRechargeCodeExpired      ErrorCode = "RECHARGE_CODE_EXPIRED"
	CodeBalanceConflict          ErrorCode = "BALANCE_CONFLICT"
	CodeUserNotFound             ErrorCode = "USER_NOT_FOUND"
	CodePermissionNotFound       ErrorCode = "PERMISSION_NOT_FOUND"
	CodePackageNotFound          ErrorCode = "PACKAGE_NOT_FOUND"
	CodeNoPricingForDuration     ErrorCode = "NO_PRICING_FOR_DURATION"
)
