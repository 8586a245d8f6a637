// Package services validates control chart requests at the boundary, turns raw
// metric entries into per-period points and wraps the SPC engine with result
// caching and logging.
package services

// Error codes returned in ServiceError.Code
const (
	CodeInvalidDataType      = "INVALID_DATA_TYPE"
	CodeInvalidSigmaLevel    = "INVALID_SIGMA_LEVEL"
	CodeInvalidBaselineRange = "INVALID_BASELINE_RANGE"
	CodeInvalidPoint         = "INVALID_POINT"
	CodeInvalidEntry         = "INVALID_ENTRY"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}
