package orders_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/orders"
)

func TestParseAccountNames(t *testing.T) {
	accounts, err := orders.ParseAccountNames(`[{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"}]`)
	assert.NoError(t, err)
	assert.Equal(t, []orders.AccountName{{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}}, accounts)
}

func TestParseAccountNamesEmptyPayload(t *testing.T) {
	for _, raw := range []string{"", "   ", "[]", "null"} {
		accounts, err := orders.ParseAccountNames(raw)
		assert.NoError(t, err, "payload %q", raw)
		assert.Empty(t, accounts)
	}
}

func TestParseAccountNamesMalformedPayload(t *testing.T) {
	accounts, err := orders.ParseAccountNames(`{"not":"a list"`)
	assert.Error(t, err)
	assert.Empty(t, accounts)
	assert.NotNil(t, accounts)
}

func TestParseAccountNamesMissingFields(t *testing.T) {
	accounts, err := orders.ParseAccountNames(`[{"email":"a@b.com"},{}]`)
	assert.NoError(t, err)
	assert.Equal(t, []orders.AccountName{{Email: "a@b.com"}, {}}, accounts)
}

func TestRenderAccountsCSVQuotesEveryField(t *testing.T) {
	accounts := []orders.AccountName{
		{FirstName: "A", LastName: `B"Q`, Email: "a@b.com"},
	}

	csv := string(orders.RenderAccountsCSV(accounts))
	assert.Equal(t, "\"First Name\",\"Last Name\",\"Email\"\r\n\"A\",\"B\"\"Q\",\"a@b.com\"", csv)
}

func TestRenderAccountsCSVHeaderOnly(t *testing.T) {
	csv := string(orders.RenderAccountsCSV(nil))
	assert.Equal(t, "\"First Name\",\"Last Name\",\"Email\"", csv)
}

func TestRenderAccountsCSVEmptyFields(t *testing.T) {
	csv := string(orders.RenderAccountsCSV([]orders.AccountName{{}}))
	assert.Equal(t, "\"First Name\",\"Last Name\",\"Email\"\r\n\"\",\"\",\"\"", csv)
}
