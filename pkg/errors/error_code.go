package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidTimeFrame     ErrorCode = 102
	ErrCodeInvalidVersion       ErrorCode = 103

	// Data/Resource errors (200-299)
	ErrCodeDataUnavailable ErrorCode = 200
	ErrCodeSymbolNotCached ErrorCode = 201

	// Scenario errors (400-499)
	ErrCodeEmptyPattern   ErrorCode = 400
	ErrCodeUnknownCompany ErrorCode = 401

	// Market data errors (700-799)
	ErrCodeTransport       ErrorCode = 700
	ErrCodeParse           ErrorCode = 701
	ErrCodeInvalidProvider ErrorCode = 702

	// Export errors (800-899)
	ErrCodeExportFailed ErrorCode = 800
)

var errorCodeNames = map[ErrorCode]string{
	ErrCodeUnknown:              "Unknown",
	ErrCodeInvalidParameter:     "InvalidParameter",
	ErrCodeInvalidConfiguration: "InvalidConfiguration",
	ErrCodeInvalidTimeFrame:     "InvalidTimeFrame",
	ErrCodeInvalidVersion:       "InvalidVersion",
	ErrCodeDataUnavailable:      "DataUnavailable",
	ErrCodeSymbolNotCached:      "SymbolNotCached",
	ErrCodeEmptyPattern:         "EmptyPattern",
	ErrCodeUnknownCompany:       "UnknownCompany",
	ErrCodeTransport:            "TransportError",
	ErrCodeParse:                "ParseError",
	ErrCodeInvalidProvider:      "InvalidProvider",
	ErrCodeExportFailed:         "ExportFailed",
}

// String returns the kind name of the code, e.g. "TransportError".
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}

	return errorCodeNames[ErrCodeUnknown]
}
