package artifact

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yairfalse/sampo/pkg/types"
)

// ParseFindingsSummary extracts findings from the scan summary text. The
// summary lists one finding per "- " bullet under the "=== Findings ==="
// marker; a severity word inside the bullet is picked up when present.
func ParseFindingsSummary(text string) []types.SecurityFinding {
	var findings []types.SecurityFinding

	inFindings := false
	for _, line := range SplitLines(text) {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "===") {
			inFindings = strings.Contains(trimmed, "Findings")
			continue
		}
		if !inFindings || !strings.HasPrefix(trimmed, "- ") {
			continue
		}

		message := strings.TrimSpace(strings.TrimPrefix(trimmed, "- "))
		if message == "" {
			continue
		}

		findings = append(findings, types.SecurityFinding{
			Severity: types.DetectSeverity(message),
			Message:  message,
			Source:   "codeql-summary",
		})
	}

	return findings
}

// sarifLog mirrors the slice of the SARIF schema the scan produces.
type sarifLog struct {
	Runs []struct {
		Results []struct {
			RuleID  string `json:"ruleId"`
			Level   string `json:"level"`
			Message struct {
				Text string `json:"text"`
			} `json:"message"`
			Locations []struct {
				PhysicalLocation struct {
					ArtifactLocation struct {
						URI string `json:"uri"`
					} `json:"artifactLocation"`
					Region struct {
						StartLine int `json:"startLine"`
					} `json:"region"`
				} `json:"physicalLocation"`
			} `json:"locations"`
		} `json:"results"`
	} `json:"runs"`
}

// ParseSARIF extracts findings from a SARIF payload: rule id, message,
// level mapped onto the severity scale, and the first physical location.
func ParseSARIF(data []byte) ([]types.SecurityFinding, error) {
	var log sarifLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("invalid SARIF payload: %w", err)
	}

	var findings []types.SecurityFinding
	for _, run := range log.Runs {
		for _, result := range run.Results {
			finding := types.SecurityFinding{
				RuleID:   result.RuleID,
				Severity: sarifLevelSeverity(result.Level),
				Message:  result.Message.Text,
				Source:   "sarif",
			}

			if len(result.Locations) > 0 {
				physical := result.Locations[0].PhysicalLocation
				finding.Location = physical.ArtifactLocation.URI
				if finding.Location != "" && physical.Region.StartLine > 0 {
					finding.Location = fmt.Sprintf("%s:%d", finding.Location, physical.Region.StartLine)
				}
			}

			findings = append(findings, finding)
		}
	}

	return findings, nil
}

// sarifLevelSeverity maps SARIF result levels onto the severity scale.
func sarifLevelSeverity(level string) types.Severity {
	switch strings.ToLower(level) {
	case "error":
		return types.SeverityHigh
	case "warning":
		return types.SeverityMedium
	case "note":
		return types.SeverityLow
	}
	return types.SeverityUnknown
}
