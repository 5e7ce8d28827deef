package api

const (
	CategoryDatabase      = ErrorCategory("Database")
	CategoryUser          = ErrorCategory("User") // used for errors related to user input, validation, etc.
	CategoryForbidden     = ErrorCategory("Forbidden")
	CategoryUnauthorized  = ErrorCategory("Unauthorized")
	CategoryNotFound      = ErrorCategory("NotFound")
	CategoryUnprocessable = ErrorCategory("Unprocessable") // valid input the system declines to act on
	CategoryConfig        = ErrorCategory("Config")        // incomplete server-side configuration, e.g. missing rate data
	CategoryInternal      = ErrorCategory("Internal")      // internal server errors, not related to bad user input
)

const (
	// General

	ErrorCreateFailure         = ErrorKey("ErrorCreateFailure")
	ErrorGenericInternalServer = ErrorKey("ErrorGenericInternalServer")
	ErrorForeignKeyViolation   = ErrorKey("ErrorForeignKeyViolation")
	ErrorInvalidRequestBody    = ErrorKey("ErrorInvalidRequestBody")
	ErrorMustBeAValidUUID      = ErrorKey("ErrorMustBeAValidUUID")
	ErrorNoRows                = ErrorKey("ErrorNoRows")
	ErrorNotAuthorized         = ErrorKey("ErrorNotAuthorized")
	ErrorQueryFailure          = ErrorKey("ErrorQueryFailure")
	ErrorSaveFailure           = ErrorKey("ErrorSaveFailure")
	ErrorTransactionNotFound   = ErrorKey("ErrorTransactionNotFound")
	ErrorUniqueKeyViolation    = ErrorKey("ErrorUniqueKeyViolation")
	ErrorUnknown               = ErrorKey("ErrorUnknown")
	ErrorUpdateFailure         = ErrorKey("ErrorUpdateFailure")
	ErrorValidation            = ErrorKey("ErrorValidation")

	// Partner
	ErrorPartnerNotFound          = ErrorKey("ErrorPartnerNotFound")
	ErrorPartnerProductNotAllowed = ErrorKey("ErrorPartnerProductNotAllowed")

	// Quote
	ErrorQuoteFromContext   = ErrorKey("ErrorQuoteFromContext")
	ErrorQuoteNotFound      = ErrorKey("ErrorQuoteNotFound")
	ErrorQuoteExpired       = ErrorKey("ErrorQuoteExpired")
	ErrorQuoteStatus        = ErrorKey("ErrorQuoteStatus")
	ErrorRateNotFound       = ErrorKey("ErrorRateNotFound")
	ErrorNoCarrierAvailable = ErrorKey("ErrorNoCarrierAvailable")

	// Policy
	ErrorPolicyFromContext  = ErrorKey("ErrorPolicyFromContext")
	ErrorPolicyNotFound     = ErrorKey("ErrorPolicyNotFound")
	ErrorPolicyStatus       = ErrorKey("ErrorPolicyStatus")
	ErrorComplianceBlocked  = ErrorKey("ErrorComplianceBlocked")
	ErrorCarrierCapacity    = ErrorKey("ErrorCarrierCapacity")
	ErrorCarrierNotFound    = ErrorKey("ErrorCarrierNotFound")

	// Portfolio simulation
	ErrorSimulationInput         = ErrorKey("ErrorSimulationInput")
	ErrorSimulationScenarioLimit = ErrorKey("ErrorSimulationScenarioLimit")
)
