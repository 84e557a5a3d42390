package hexrift

import "fmt"

// ErrorCode identifies why an action was rejected.
type ErrorCode string

const (
	// Lifecycle errors.
	CodeGameOver      ErrorCode = "GameOver"
	CodeUnknownPlayer ErrorCode = "UnknownPlayer"
	CodeUnknownAction ErrorCode = "UnknownActionType"

	// Movement errors.
	CodeInvalidCoordinates  ErrorCode = "InvalidCoordinates"
	CodeNoUnitToMove        ErrorCode = "NoUnitToMove"
	CodeNotYourUnit         ErrorCode = "NotYourUnit"
	CodeUnitExhausted       ErrorCode = "UnitExhausted"
	CodeTargetNotAdjacent   ErrorCode = "TargetNotAdjacent"
	CodeDestinationOccupied ErrorCode = "DestinationOccupied"
	CodeNexusUnassailable   ErrorCode = "NexusUnassailable"

	// Build errors.
	CodeInvalidTile          ErrorCode = "InvalidTile"
	CodeNotOwner             ErrorCode = "NotOwner"
	CodeTileOccupied         ErrorCode = "TileOccupied"
	CodeAlreadyBuilt         ErrorCode = "AlreadyBuilt"
	CodeDisconnected         ErrorCode = "Disconnected"
	CodeInsufficientEssence  ErrorCode = "InsufficientEssence"
	CodeInvalidStructure     ErrorCode = "InvalidStructure"

	// Recruit errors.
	CodeMustRecruitAtNexus ErrorCode = "MustRecruitAtNexus"
	CodeNexusOccupied      ErrorCode = "NexusOccupied"
	CodeInvalidArchetype   ErrorCode = "InvalidArchetype"
)

// RuleError describes why an action is illegal. Rule errors are plain data:
// they are reported to the offending caller and never mutate match state.
type RuleError struct {
	Code    ErrorCode
	Message string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func ruleErrorf(code ErrorCode, format string, args ...any) *RuleError {
	return &RuleError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the ErrorCode from an engine error, or "" for other errors.
func CodeOf(err error) ErrorCode {
	if re, ok := err.(*RuleError); ok {
		return re.Code
	}
	return ""
}
