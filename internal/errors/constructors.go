package errors

import (
	"fmt"
	"os"
	"strings"
)

// ArtifactDirError creates an error for an unreadable artifacts location
func ArtifactDirError(path string, originalErr error) *SampoError {
	err := New(ErrorTypeInput, StageRead, fmt.Sprintf("Cannot read artifacts directory: %s", path))

	// Detect the specific filesystem problem
	if originalErr != nil {
		switch {
		case os.IsNotExist(originalErr):
			err.WithCause("Directory does not exist")
		case os.IsPermission(originalErr):
			err.Type = ErrorTypePermission
			err.WithCause("Permission denied")
		default:
			err.WithCause(originalErr.Error())
		}
	}

	// Environment-specific solutions
	if err.Environment == "CI/CD detected" {
		err.WithSolutions(
			"Add a download step before analysis (actions/download-artifact)",
			fmt.Sprintf("Point --artifacts at the download path: sampo compare %s", path),
		)
	} else {
		err.WithSolutions(
			"Download run artifacts first: gh run download --dir "+path,
			"Pass the correct location: sampo compare <artifacts-dir>",
			"Try the built-in sample: sampo analyze --demo",
		)
	}

	err.WithVerify("ls " + path)
	err.WithHelp("sampo compare --help")

	return err
}

// NoRunsError creates an error for an artifacts root with no analyzable runs
func NoRunsError(root string) *SampoError {
	err := New(ErrorTypeData, StageRead, "No analyzable workflow runs found")
	err.WithCause(fmt.Sprintf("No run directory under %s contains workflow metadata", root))

	err.WithSolutions(
		"Each run needs its own directory with a workflow-metadata.json file",
		fmt.Sprintf("List what was discovered: sampo runs %s", root),
		"Widen the window if --since filtered everything out",
	)

	err.WithVerify(fmt.Sprintf("find %s -name workflow-metadata.json", root))
	err.WithHelp("sampo runs --help")

	return err
}

// LogFileError creates an error for an unreadable single-run log file
func LogFileError(path string, originalErr error) *SampoError {
	err := New(ErrorTypeInput, StageRead, fmt.Sprintf("Cannot read log file: %s", path))

	if originalErr != nil {
		if os.IsPermission(originalErr) {
			err.Type = ErrorTypePermission
			err.WithCause("Permission denied")
		} else {
			err.WithCause(originalErr.Error())
		}
	}

	err.WithSolutions(
		"Check the path points at a run directory or a plain log file",
		"Analyze the built-in sample instead: sampo analyze --demo",
	)

	err.WithVerify("ls -l " + path)
	err.WithHelp("sampo analyze --help")

	return err
}

// OutputWriteError creates an error for a failed report write
func OutputWriteError(path string, originalErr error) *SampoError {
	errType := ErrorTypeUnavailable
	if originalErr != nil && os.IsPermission(originalErr) {
		errType = ErrorTypePermission
	}

	err := New(errType, StageRender, fmt.Sprintf("Cannot write report to %s", path))
	if originalErr != nil {
		err.WithCause(originalErr.Error())
	}

	err.WithSolutions(
		"Choose a writable location: --output ./report.md",
		"Print to stdout instead by omitting --output",
	)

	err.WithVerify("touch " + path)
	err.WithHelp("sampo analyze --help")

	return err
}

// ConfigFileError creates an error for an unusable configuration file
func ConfigFileError(path string, originalErr error) *SampoError {
	err := New(ErrorTypeConfiguration, StageConfig, "Invalid configuration file")

	if originalErr != nil {
		errStr := originalErr.Error()
		if strings.Contains(errStr, "yaml") {
			err.WithCause(fmt.Sprintf("YAML syntax error in %s", path))
		} else {
			err.WithCause(errStr)
		}
	}

	err.WithSolutions(
		fmt.Sprintf("Fix the syntax in %s", path),
		"Remove the file to fall back to defaults",
		"Override per run with flags: --format, --output, --workers",
	)

	err.WithVerify("cat " + path)
	err.WithHelp("sampo --help")

	return err
}

// InvalidFormatError creates a usage error for an unknown output format
func InvalidFormatError(format string) *SampoError {
	err := New(ErrorTypeUsage, StageRender, fmt.Sprintf("Unknown output format: %s", format))
	err.WithCause("Supported formats are markdown, json, yaml")

	err.WithSolutions(
		"Use --format markdown for the report document",
		"Use --format json or --format yaml for machine-readable output",
	)

	err.WithHelp("sampo analyze --help")

	return err
}

// InvalidSeverityError creates a usage error for an unknown severity threshold
func InvalidSeverityError(value string) *SampoError {
	err := New(ErrorTypeUsage, StageAnalyze, fmt.Sprintf("Unknown severity threshold: %s", value))
	err.WithCause("Supported levels are low, medium, high, critical")

	err.WithSolutions(
		"Use --min-severity medium to keep the default",
		"Use --min-severity low to include everything",
	)

	err.WithHelp("sampo compare --help")

	return err
}

// UnknownWorkflowError creates a usage error for an unmappable workflow name
func UnknownWorkflowError(name string) *SampoError {
	err := New(ErrorTypeUsage, StageAnalyze, fmt.Sprintf("Cannot determine workflow type for: %s", name))
	err.WithCause("Known types are security_scan, compliance_live, compliance_sandbox, compliance_weekly")

	err.WithSolutions(
		"Pass the type explicitly: --workflow compliance_live",
		"Names containing codeql, security, live, sandbox, or weekly map automatically",
	)

	err.WithHelp("sampo analyze --help")

	return err
}

// InvalidSinceError creates a usage error for an unparseable time window
func InvalidSinceError(value string) *SampoError {
	err := New(ErrorTypeUsage, StageRead, fmt.Sprintf("Cannot parse time window: %s", value))
	err.WithCause(`Accepted forms are Go durations ("24h") and phrases like "3 days ago"`)

	err.WithSolutions(
		`Use a duration: --since 72h`,
		`Use a phrase: --since "2 weeks ago"`,
	)

	err.WithHelp("sampo runs --help")

	return err
}
