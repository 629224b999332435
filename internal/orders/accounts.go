package orders

import (
	"encoding/json"
	"strings"
)

// AccountName is one entry of an order's account payload. Every field is
// optional; absent values render as empty strings in the export.
type AccountName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// ParseAccountNames decodes the stored payload. A malformed historical record
// must never fail an otherwise valid request, so decode errors come back with
// an empty list for the caller to log and move on.
func ParseAccountNames(raw string) ([]AccountName, error) {
	if strings.TrimSpace(raw) == "" {
		return []AccountName{}, nil
	}

	var accounts []AccountName
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		return []AccountName{}, err
	}
	if accounts == nil {
		accounts = []AccountName{}
	}
	return accounts, nil
}

var csvHeader = []string{"First Name", "Last Name", "Email"}

// RenderAccountsCSV renders the fixed three-column export. Every field is
// quote-wrapped unconditionally with internal quotes doubled, rows are joined
// with CRLF. encoding/csv is not used because it only quotes when required.
func RenderAccountsCSV(accounts []AccountName) []byte {
	lines := make([]string, 0, len(accounts)+1)
	lines = append(lines, csvLine(csvHeader))

	for _, account := range accounts {
		lines = append(lines, csvLine([]string{account.FirstName, account.LastName, account.Email}))
	}

	return []byte(strings.Join(lines, "\r\n"))
}

func csvLine(fields []string) string {
	quoted := make([]string, len(fields))
	for i, field := range fields {
		quoted[i] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}
