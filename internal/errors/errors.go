package errors

import (
	"fmt"
	"os"
	"strings"
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeUsage         ErrorType = "Usage"
	ErrorTypeData          ErrorType = "Data"
	ErrorTypeInput         ErrorType = "Input"
	ErrorTypeUnavailable   ErrorType = "Unavailable"
	ErrorTypePermission    ErrorType = "Permission"
	ErrorTypeConfiguration ErrorType = "Configuration"
)

// Stage identifies which part of the pipeline raised the error
type Stage string

const (
	StageRead      Stage = "Read"
	StageAnalyze   Stage = "Analyze"
	StageAggregate Stage = "Aggregate"
	StageAssemble  Stage = "Assemble"
	StageRender    Stage = "Render"
	StageConfig    Stage = "Config"
	StageUnknown   Stage = "Unknown"
)

// SampoError represents a user-friendly error with actionable guidance
type SampoError struct {
	Type        ErrorType
	Stage       Stage
	Message     string
	Cause       string
	Solutions   []string
	Verify      string
	Help        string
	Environment string
}

// Error implements the error interface
func (e *SampoError) Error() string {
	var sb strings.Builder

	// Main error message
	sb.WriteString(fmt.Sprintf("\nError: %s\n", e.Message))

	// Cause if available
	if e.Cause != "" {
		sb.WriteString(fmt.Sprintf("Cause: %s\n", e.Cause))
	}

	// Environment context
	if e.Environment != "" {
		sb.WriteString(fmt.Sprintf("Environment: %s\n", e.Environment))
	}

	// Solutions
	if len(e.Solutions) > 0 {
		sb.WriteString("\nSolutions:\n")
		for _, solution := range e.Solutions {
			sb.WriteString(fmt.Sprintf("  %s\n", solution))
		}
	}

	// Verification step
	if e.Verify != "" {
		sb.WriteString(fmt.Sprintf("\nVerify: %s\n", e.Verify))
	}

	// Help command
	if e.Help != "" {
		sb.WriteString(fmt.Sprintf("Help: %s\n", e.Help))
	}

	return sb.String()
}

// Format implements fmt.Formatter for custom formatting
func (e *SampoError) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprintf(f, "%s", e.Error())
	case 'v':
		if f.Flag('+') {
			// Verbose mode includes type and stage
			fmt.Fprintf(f, "[%s/%s] %s", e.Type, e.Stage, e.Error())
		} else {
			fmt.Fprintf(f, "%s", e.Error())
		}
	}
}

// New creates a new SampoError
func New(errType ErrorType, stage Stage, message string) *SampoError {
	return &SampoError{
		Type:        errType,
		Stage:       stage,
		Message:     message,
		Environment: detectEnvironment(),
	}
}

// WithCause adds cause information
func (e *SampoError) WithCause(cause string) *SampoError {
	e.Cause = cause
	return e
}

// WithSolutions adds solution steps
func (e *SampoError) WithSolutions(solutions ...string) *SampoError {
	e.Solutions = append(e.Solutions, solutions...)
	return e
}

// WithVerify adds verification command
func (e *SampoError) WithVerify(verify string) *SampoError {
	e.Verify = verify
	return e
}

// WithHelp adds help command
func (e *SampoError) WithHelp(help string) *SampoError {
	e.Help = help
	return e
}

// detectEnvironment detects the current environment
func detectEnvironment() string {
	// Check for CI/CD environment variables
	ciVars := []string{"CI", "CONTINUOUS_INTEGRATION", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_HOME"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return "CI/CD detected"
		}
	}

	// Check for container environment
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return "Container environment detected"
	}

	// Default to development workstation
	return "Development workstation detected"
}

// IsUserError checks if error requires user action
func IsUserError(err error) bool {
	_, ok := err.(*SampoError)
	return ok
}

// GetExitCode returns appropriate exit code for error type
func GetExitCode(err error) int {
	sampoErr, ok := err.(*SampoError)
	if !ok {
		return 1 // Generic error
	}

	switch sampoErr.Type {
	case ErrorTypeUsage:
		return 64 // EX_USAGE
	case ErrorTypeData:
		return 65 // EX_DATAERR
	case ErrorTypeInput:
		return 66 // EX_NOINPUT
	case ErrorTypeUnavailable:
		return 69 // EX_UNAVAILABLE
	case ErrorTypePermission:
		return 77 // EX_NOPERM
	case ErrorTypeConfiguration:
		return 78 // EX_CONFIG
	default:
		return 1
	}
}
