package sqlguard

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult describes an injection pattern detected in a
// statement parameter.
type InjectionCheckResult struct {
	IsSQLi      bool   // True if SQL injection pattern detected
	Fingerprint string // libinjection fingerprint of the detected pattern
	Position    int    // 1-based position of the parameter ($1, $2, ...)
	ParamValue  any    // The value that was checked
}

// CheckParameterForInjection runs libinjection against a positional
// parameter value. Only string values are checked: numbers, booleans and
// dates cannot carry injection payloads.
//
// Returns nil when the value is clean.
func CheckParameterForInjection(position int, value any) *InjectionCheckResult {
	strValue, ok := value.(string)
	if !ok {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(strValue)
	if isSQLi {
		return &InjectionCheckResult{
			IsSQLi:      true,
			Fingerprint: string(fingerprint),
			Position:    position,
			ParamValue:  value,
		}
	}

	return nil
}

// CheckAllParameters screens every positional parameter of a statement.
// Returns one result per parameter that failed; an empty slice means all
// parameters are clean.
func CheckAllParameters(params []any) []*InjectionCheckResult {
	var results []*InjectionCheckResult
	for i, value := range params {
		if result := CheckParameterForInjection(i+1, value); result != nil {
			results = append(results, result)
		}
	}
	return results
}
