package artifact

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yairfalse/sampo/pkg/types"
)

// complianceRecord is the wire form of an archived company profile
// response.
type complianceRecord struct {
	CompanyName    string `json:"company_name"`
	CompanyNumber  string `json:"company_number"`
	CompanyStatus  string `json:"company_status"`
	Type           string `json:"type"`
	DateOfCreation string `json:"date_of_creation"`
}

// ParseComplianceFile decodes one archived response payload. The check
// variant comes from the file name, the fields from the payload.
func ParseComplianceFile(name string, data []byte) (types.ComplianceCheck, error) {
	var record complianceRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return types.ComplianceCheck{}, fmt.Errorf("invalid compliance payload: %w", err)
	}

	return types.ComplianceCheck{
		Variant:      complianceVariant(name),
		File:         name,
		CompanyName:  record.CompanyName,
		CompanyNum:   record.CompanyNumber,
		Status:       record.CompanyStatus,
		CompanyType:  record.Type,
		Incorporated: record.DateOfCreation,
	}, nil
}

// complianceVariant extracts the check variant from a response file name
// of the form response_<variant>_<stamp>.json.
func complianceVariant(name string) string {
	base := strings.TrimSuffix(name, ".json")
	base = strings.TrimPrefix(base, "response_")

	for _, variant := range []string{"live", "sandbox", "weekly"} {
		if strings.HasPrefix(base, variant) {
			return variant
		}
	}
	return types.Unknown
}
